package media

import (
	"path/filepath"
	"strings"
)

// Kind classifies a folder entry by extension.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindVideo
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindVector:
		return "vector"
	default:
		return "other"
	}
}

var kindsByExt = map[string]Kind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".mp4":  KindVideo,
	".svg":  KindVector,
	".eps":  KindVector,
}

// KindOf returns the kind for name, matching the extension case-insensitively.
func KindOf(name string) Kind {
	return kindsByExt[strings.ToLower(filepath.Ext(name))]
}
