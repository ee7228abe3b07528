package shared

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	AdaPolicy = "ada"
	AdaAsset  = "lovelace"
)

// AssetID identifies an asset as "policyId.assetName", both hex encoded.
// The base asset is AdaAssetID; everything else is a token.
type AssetID string

var AdaAssetID = FromSeparate(AdaPolicy, AdaAsset)

func FromSeparate(policy, assetName string) AssetID {
	if assetName == "" {
		return AssetID(policy)
	}
	return AssetID(policy + "." + assetName)
}

func (a AssetID) String() string {
	return string(a)
}

func (a AssetID) IsZero() bool {
	return a == ""
}

func (a AssetID) PolicyID() string {
	if index := strings.Index(string(a), "."); index >= 0 {
		return string(a[:index])
	}
	return string(a)
}

func (a AssetID) AssetName() string {
	if index := strings.Index(string(a), "."); index >= 0 {
		return string(a[index+1:])
	}
	return ""
}

func (a AssetID) HasPolicyID(policy string) bool {
	return a.PolicyID() == policy
}

func (a AssetID) HasAssetID(re *regexp.Regexp) bool {
	return re.MatchString(string(a))
}

// AssetNameUTF8 hex-decodes the asset name and reports whether the result
// is valid UTF-8.
func (a AssetID) AssetNameUTF8() ([]byte, bool) {
	data, err := hex.DecodeString(a.AssetName())
	if err != nil {
		return nil, false
	}
	if !utf8.Valid(data) {
		return data, false
	}
	return data, true
}

// MatchAssetName matches the asset name against re, preferring the UTF-8
// decoded form when the name is valid hex.
func (a AssetID) MatchAssetName(re *regexp.Regexp) ([]string, bool) {
	name := a.AssetName()
	if decoded, ok := a.AssetNameUTF8(); ok && len(decoded) > 0 {
		name = string(decoded)
	}
	match := re.FindStringSubmatch(name)
	return match, match != nil
}

// IsAda reports whether the id denotes the base asset.
func (a AssetID) IsAda() bool {
	return a == AdaAssetID
}
