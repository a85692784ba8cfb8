package imageutil

// CreateSolidGray creates a uniform brightness test frame.
func CreateSolidGray(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	img.Fill(v)
	return img
}

// CreateGradientGray creates a horizontal dark-to-light gradient
// test frame.
func CreateGradientGray(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGrayValue(x, y, uint8(255*x/(width-1)))
		}
	}
	return img
}

// CreateCheckerboardGray creates a black/white checkerboard pattern.
func CreateCheckerboardGray(width, height, squareSize int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetGrayValue(x, y, 255)
			} else {
				img.SetGrayValue(x, y, 0)
			}
		}
	}
	return img
}
