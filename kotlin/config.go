package kotlin

import "github.com/pagr/bindgen/model"

// Config holds caller customizations for the generated Kotlin. It can only
// control details that do not affect the underlying component; those are
// entirely determined by the interface model. Config is resolved once per
// run, before generation starts, and is immutable afterwards.
type Config struct {
	// PackageName is the Kotlin package of the generated file. Empty means
	// unset; DefaultConfig derives "uniffi.<namespace>".
	PackageName string `toml:"package_name" json:"package_name"`

	// CdylibName is the name of the native shared library to load. Empty
	// means unset; DefaultConfig derives "uniffi_<namespace>".
	CdylibName string `toml:"cdylib_name" json:"cdylib_name"`
}

// DefaultConfig derives the configuration from the component's own
// namespace.
func DefaultConfig(ci *model.ComponentInterface) Config {
	return Config{
		PackageName: "uniffi." + ci.Namespace,
		CdylibName:  "uniffi_" + ci.Namespace,
	}
}

// Merged returns a copy of c with explicitly supplied fields of other
// winning over c's values. The two fields merge independently.
func (c Config) Merged(other Config) Config {
	out := c
	if other.PackageName != "" {
		out.PackageName = other.PackageName
	}
	if other.CdylibName != "" {
		out.CdylibName = other.CdylibName
	}
	return out
}

// ResolveConfig merges explicit overrides over the interface-derived
// defaults. This is the only place configuration is computed; the result is
// passed explicitly into generation and never stored globally.
func ResolveConfig(ci *model.ComponentInterface, overrides Config) Config {
	return DefaultConfig(ci).Merged(overrides)
}
