// Copyright 2021 Matt Ho
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the diagnostic side channel shared by the
// websocket client and the coin selection engine.
package logger

import (
	"log"
	"strings"
)

type KeyValue struct {
	Key   string
	Value string
}

// KV is a convenience constructor for KeyValue pairs.
func KV(key, value string) KeyValue {
	return KeyValue{
		Key:   key,
		Value: value,
	}
}

type Logger interface {
	Debug(message string, kvs ...KeyValue)
	Info(message string, kvs ...KeyValue)
	Warn(message string, kvs ...KeyValue)
	With(kvs ...KeyValue) Logger
}

// DefaultLogger writes to the standard library logger.
var DefaultLogger = defaultLogger{}

type defaultLogger struct {
	kvs []KeyValue
}

func (d defaultLogger) print(level, message string, kvs ...KeyValue) {
	var buf strings.Builder
	buf.WriteString(level)
	buf.WriteString(" ")
	buf.WriteString(message)
	for _, kv := range append(d.kvs, kvs...) {
		buf.WriteString(" ")
		buf.WriteString(kv.Key)
		buf.WriteString("=")
		buf.WriteString(kv.Value)
	}
	log.Println(buf.String())
}

func (d defaultLogger) Debug(message string, kvs ...KeyValue) { d.print("DEBUG", message, kvs...) }
func (d defaultLogger) Info(message string, kvs ...KeyValue)  { d.print("INFO", message, kvs...) }
func (d defaultLogger) Warn(message string, kvs ...KeyValue)  { d.print("WARN", message, kvs...) }

func (d defaultLogger) With(kvs ...KeyValue) Logger {
	return defaultLogger{
		kvs: append(append([]KeyValue{}, d.kvs...), kvs...),
	}
}

// NopLogger discards all messages.
var NopLogger = nopLogger{}

type nopLogger struct{}

func (n nopLogger) Debug(string, ...KeyValue) {}
func (n nopLogger) Info(string, ...KeyValue)  {}
func (n nopLogger) Warn(string, ...KeyValue)  {}
func (n nopLogger) With(...KeyValue) Logger   { return n }
