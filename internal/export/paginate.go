/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"math"
	"strings"
)

// PageSize is a PDF page in points.
type PageSize struct {
	Name string
	W, H float64
}

var (
	A4     = PageSize{Name: "a4", W: 595.28, H: 841.89}
	Letter = PageSize{Name: "letter", W: 612, H: 792}
)

// ParsePageSize accepts "a4" or "letter" in any case; empty means A4.
func ParsePageSize(s string) (PageSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", A4.Name:
		return A4, nil
	case Letter.Name:
		return Letter, nil
	default:
		return PageSize{}, fmt.Errorf("unknown page size %q", s)
	}
}

// Band is the slice of the snapshot shown on one page. Top and Bottom are page
// units after scaling the image to page width; Y0 and Y1 are the matching
// pixel rows of the source image.
type Band struct {
	Index       int
	Top, Bottom float64
	Y0, Y1      int
}

// Height returns the band height in page units.
func (b Band) Height() float64 { return b.Bottom - b.Top }

// slack absorbs rounding so an image of exactly n pages does not get n+1.
const slack = 1e-6

// Paginate splits an imgW x imgH image, scaled to page width, into page-high
// bands. There is always at least one band; the last one may be shorter.
func Paginate(imgW, imgH int, page PageSize) []Band {
	if imgW <= 0 || imgH <= 0 || page.W <= 0 || page.H <= 0 {
		return []Band{{Index: 0}}
	}
	scaledH := float64(imgH) * page.W / float64(imgW)
	n := int(math.Ceil(scaledH/page.H - slack))
	if n < 1 {
		n = 1
	}
	pxPerUnit := float64(imgW) / page.W
	bands := make([]Band, n)
	for i := range bands {
		top := float64(i) * page.H
		bottom := math.Min(float64(i+1)*page.H, scaledH)
		y1 := int(math.Round(bottom * pxPerUnit))
		if i == n-1 || y1 > imgH {
			y1 = imgH
		}
		bands[i] = Band{
			Index:  i,
			Top:    top,
			Bottom: bottom,
			Y0:     int(math.Round(top * pxPerUnit)),
			Y1:     y1,
		}
	}
	return bands
}
