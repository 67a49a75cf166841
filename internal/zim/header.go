// Package zim renders Zim Desktop Wiki page text: headers, tag lines,
// duplicate heading removal, and journal pages with backlink sections.
package zim

import (
	"fmt"
	"time"
)

// Wire format markers for Zim pages.
const (
	ContentType = "text/x-zim-wiki"
	WikiFormat  = "zim 0.6"
)

// creationDateLayout matches Zim's own header timestamps: RFC3339-like with
// a numeric offset and no colon.
const creationDateLayout = "2006-01-02T15:04:05-0700"

// Header returns the fixed Zim page header block ending with the top-level
// title heading line.
func Header(title string, now time.Time) string {
	return fmt.Sprintf(
		"Content-Type: %s\nWiki-Format: %s\nCreation-Date: %s\n====== %s ======\n",
		ContentType, WikiFormat, now.Format(creationDateLayout), title,
	)
}
