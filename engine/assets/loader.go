package assets

// Loader decodes an asset file. The concrete type returned depends on the
// asset type it is registered for.
type Loader interface {
	Load(path string) (interface{}, error)
}

type LoaderFunc func(path string) (interface{}, error)

func (f LoaderFunc) Load(path string) (interface{}, error) {
	return f(path)
}
