package metadata

import (
	"strconv"
	"strings"
)

// Category is one entry of the Adobe Stock category table.
type Category struct {
	ID   int
	Name string
}

var categories = []Category{
	{1, "Animals"},
	{2, "Buildings and Architecture"},
	{3, "Business"},
	{4, "Drinks"},
	{5, "The Environment"},
	{6, "States of Mind"},
	{7, "Food"},
	{8, "Graphic Resources"},
	{9, "Hobbies and Leisure"},
	{10, "Industry"},
	{11, "Landscapes"},
	{12, "Lifestyle"},
	{13, "People"},
	{14, "Plants and Flowers"},
	{15, "Culture and Religion"},
	{16, "Science"},
	{17, "Social Issues"},
	{18, "Sports"},
	{19, "Technology"},
	{20, "Transport"},
	{21, "Travel"},
}

// Categories returns a copy of the category table in ID order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// CategoryName returns the display name for a category ID string: "N/A" when
// the value is not a number and "Unknown" when the number is outside the table.
func CategoryName(id string) string {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n < 0 {
		return "N/A"
	}
	if n < 1 || n > len(categories) {
		return "Unknown"
	}
	return categories[n-1].Name
}
