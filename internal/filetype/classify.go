// Package filetype maps file names to preview categories and decides which
// of them can be rendered inline.
package filetype

import (
	"path"
	"strings"
)

// Category is the semantic kind of a file derived from its extension.
type Category int

const (
	CategoryOther Category = iota
	CategoryImage
	CategoryVideo
	CategoryDocument
	CategoryText
	CategoryArchive
)

func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryVideo:
		return "video"
	case CategoryDocument:
		return "document"
	case CategoryText:
		return "text"
	case CategoryArchive:
		return "archive"
	default:
		return "other"
	}
}

// Classification is the derived category and normalized extension of a name.
type Classification struct {
	Category  Category
	Extension string
}

var categoryByExtension = map[string]Category{
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"png":  CategoryImage,
	"gif":  CategoryImage,
	"bmp":  CategoryImage,
	"svg":  CategoryImage,
	"webp": CategoryImage,

	"mp4":  CategoryVideo,
	"avi":  CategoryVideo,
	"mov":  CategoryVideo,
	"mkv":  CategoryVideo,
	"webm": CategoryVideo,

	"pdf":      CategoryDocument,
	"doc":      CategoryDocument,
	"docx":     CategoryDocument,
	"xls":      CategoryDocument,
	"xlsx":     CategoryDocument,
	"ppt":      CategoryDocument,
	"pptx":     CategoryDocument,
	"odt":      CategoryDocument,
	"ods":      CategoryDocument,
	"odp":      CategoryDocument,
	"rtf":      CategoryDocument,
	"html":     CategoryDocument,
	"htm":      CategoryDocument,
	"epub":     CategoryDocument,
	"pages":    CategoryDocument,
	"fig":      CategoryDocument,
	"psd":      CategoryDocument,
	"ai":       CategoryDocument,
	"indd":     CategoryDocument,
	"xd":       CategoryDocument,
	"sketch":   CategoryDocument,
	"afdesign": CategoryDocument,
	"afphoto":  CategoryDocument,

	"txt": CategoryText,
	"md":  CategoryText,
	"csv": CategoryText,

	"zip": CategoryArchive,
}

// Classify derives the classification of a file name. It never fails: names
// with a missing or unrecognized extension classify as CategoryOther with an
// empty extension.
func Classify(name string) Classification {
	ext := Extension(name)
	category, ok := categoryByExtension[ext]
	if !ok {
		return Classification{Category: CategoryOther}
	}
	return Classification{Category: category, Extension: ext}
}

// Extension returns the lower-cased extension of the base name without the
// leading dot. Dotfiles and names ending in a dot have no extension.
func Extension(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}
