package card

// Document is a positioned description of one card.
type Document struct {
	Width    int
	Height   int
	Radius   float64
	Elements []Element
}

// Element is one of Rect, Image, Text or HTMLBox.
type Element interface {
	element()
}

type Rect struct {
	X, Y, W, H  float64
	RX          float64
	Fill        string
	FillOpacity float64
	// Backdrop marks elements clipped to the card outline.
	Backdrop bool
}

type Image struct {
	X, Y, W, H float64
	Href       string
	// ClipRadius rounds the image corners; zero means no clip.
	ClipRadius float64
	Cover      bool
	Backdrop   bool
}

type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

type Text struct {
	X, Y          float64
	Content       string
	Size          float64
	Bold          bool
	Fill          string
	Anchor        Anchor
	LetterSpacing float64
}

// SafeHTML is XHTML that has already been escaped or sanitized.
type SafeHTML string

type HTMLBox struct {
	X, Y, W, H float64
	Class      string
	Blocks     []HTMLBlock
}

type HTMLBlock struct {
	Content SafeHTML
	Height  float64
	Faded   bool
}

func (Rect) element()    {}
func (Image) element()   {}
func (Text) element()    {}
func (HTMLBox) element() {}
