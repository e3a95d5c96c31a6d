package filetype

// Strategy is how a classified file is materialized for inline preview.
type Strategy int

const (
	// StrategyExternal means no inline preview; the file is opened outside.
	StrategyExternal Strategy = iota
	// StrategyEmbed passes the URL to a native image/video/document renderer.
	StrategyEmbed
	// StrategyText fetches the payload and decodes it to a string.
	StrategyText
	// StrategyArchive fetches the payload and lists its entries.
	StrategyArchive
)

func (s Strategy) String() string {
	switch s {
	case StrategyEmbed:
		return "embed"
	case StrategyText:
		return "text"
	case StrategyArchive:
		return "archive"
	default:
		return "external"
	}
}

// NeedsFetch reports whether the strategy inspects the file's bytes.
func (s Strategy) NeedsFetch() bool {
	return s == StrategyText || s == StrategyArchive
}

// extensionStrategies is the allow-list of extensions previewed regardless of
// category. Everything not listed here (and not an image or video) opens
// externally.
var extensionStrategies = map[string]Strategy{
	"txt": StrategyText,
	"md":  StrategyText,
	"csv": StrategyText,
	"zip": StrategyArchive,
	"pdf": StrategyEmbed,
}

// StrategyFor returns the preview strategy for a classification.
func StrategyFor(c Classification) Strategy {
	switch c.Category {
	case CategoryImage, CategoryVideo:
		return StrategyEmbed
	}
	if s, ok := extensionStrategies[c.Extension]; ok {
		return s
	}
	return StrategyExternal
}

// IsPreviewable reports whether the classification can be shown inline.
func IsPreviewable(c Classification) bool {
	return StrategyFor(c) != StrategyExternal
}

// StrategyForName classifies name and returns its strategy.
func StrategyForName(name string) Strategy {
	return StrategyFor(Classify(name))
}
