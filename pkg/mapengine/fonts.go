package mapengine

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomonobold"
)

var (
	boldFontOnce sync.Once
	boldFont     *truetype.Font
	boldFontErr  error
)

func loadBoldFont() (*truetype.Font, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = truetype.Parse(gomonobold.TTF)
	})
	return boldFont, boldFontErr
}
