package fs

// Drive represents a mounted drive/volume
type Drive struct {
	Name string
	Path string
}
