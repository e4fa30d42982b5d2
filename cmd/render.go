package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"triage/internal/models"
	"triage/internal/util"
)

// renderFiles prints tracked files as a table.
func renderFiles(w io.Writer, files []*models.TrackedFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Path", "Type", "Size", "Category", "Summary"})
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	for _, f := range files {
		table.Append([]string{
			f.Name,
			f.Path,
			util.TypeOrUnknown(f.MimeType),
			util.FormatBytes(f.Size, 2),
			categoryLabel(f.Category),
			f.Summary,
		})
	}
	table.Render()
}

// renderCategories prints the categories present with their file counts.
func renderCategories(w io.Writer, counts []models.CategoryCount) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Files"})
	table.SetBorder(true)
	for _, c := range counts {
		table.Append([]string{c.Name, strconv.Itoa(c.Count)})
	}
	table.Render()
}

func categoryLabel(category string) string {
	if category == models.CategoryUncategorized {
		return color.YellowString(category)
	}
	return color.GreenString(category)
}
