package catalog

// SizeCode is a print size option for a product
type SizeCode string

const (
	SizeSmall  SizeCode = "S"
	SizeMedium SizeCode = "M"
	SizeLarge  SizeCode = "L"
)

// IsValid checks if the code is a known SizeCode
func (s SizeCode) IsValid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// String returns the string representation of the size code
func (s SizeCode) String() string {
	return string(s)
}

// FrameColour is a frame colour option for a product
type FrameColour string

const (
	FrameBlack  FrameColour = "Black"
	FrameOak    FrameColour = "Oak"
	FrameSilver FrameColour = "Silver"
	FrameWhite  FrameColour = "White"
)

// FrameColours lists the selectable frame colours in display order
var FrameColours = []FrameColour{FrameBlack, FrameOak, FrameSilver, FrameWhite}

// IsValid checks if the colour is a known FrameColour
func (f FrameColour) IsValid() bool {
	for _, c := range FrameColours {
		if f == c {
			return true
		}
	}
	return false
}

// String returns the string representation of the frame colour
func (f FrameColour) String() string {
	return string(f)
}
