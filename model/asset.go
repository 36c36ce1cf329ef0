package model

// Asset is a named file that any output file can pull in with STATICIMPORT.
type Asset struct {
	Name string
	Path string
}

// Registry is an ordered, read-only collection of assets.
//
// Names are expected to be unique. When they are not, Lookup returns the
// entry registered last, which is what a forward scan that keeps overwriting
// its match produces. Sites built with earlier releases rely on this.
type Registry struct {
	assets []Asset
}

// NewRegistry copies assets into a new registry.
func NewRegistry(assets ...Asset) Registry {
	return Registry{assets: append([]Asset(nil), assets...)}
}

// Lookup finds the last asset registered under name.
func (r Registry) Lookup(name string) (Asset, bool) {
	found, ok := Asset{}, false
	for _, a := range r.assets {
		if a.Name == name {
			found, ok = a, true
		}
	}
	return found, ok
}

func (r Registry) Len() int {
	return len(r.assets)
}

// Assets returns a copy of the registered assets in registration order.
func (r Registry) Assets() []Asset {
	return append([]Asset(nil), r.assets...)
}

// Binding ties one output file to its source and to the optional style and
// script files that STATICSTYLECOPY and STATICSCRIPTCOPY copy in.
// An empty Style or Script means there is no such binding.
type Binding struct {
	Path   string
	Style  string
	Script string
}

func (b Binding) HasStyle() bool  { return b.Style != "" }
func (b Binding) HasScript() bool { return b.Script != "" }

// Site is everything the manifest describes.
type Site struct {
	Assets Registry
	Files  []Binding
}
