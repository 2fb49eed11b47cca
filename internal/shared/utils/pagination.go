package utils

import (
	"math"
	"strconv"
)

// MaxOffset bounds OFFSET; pages past it come back empty
const MaxOffset = math.MaxInt32

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number into [1, last reachable page]
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size > 0 && number-1 > MaxOffset/size {
		number = MaxOffset/size + 1
	}
	return Page{Number: number, Size: size}
}

// ParsePage reads a ?page= value; anything invalid means page 1
func ParsePage(raw string, size int) Page {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = 1
	}
	return NewPage(n, size)
}

// Offset is never negative, even for a Page built without NewPage
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > MaxOffset/p.Size {
		return MaxOffset
	}
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

// TotalPages rounds up, with a minimum of one page
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
