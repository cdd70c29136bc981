// Package sink contains the output backends a scouting run can write to:
// a JSON snapshot on the local filesystem, a Google Sheets workbook with
// one tab per contact bucket, and a Postgres table keyed by name+address.
package sink

import (
	"fmt"
	"strings"

	"github.com/marchworks/leadscout/internal/scout"
)

const missingWebsite = "not have website"

// tabNames maps each bucket to its worksheet title.
var tabNames = map[scout.Bucket]string{
	scout.BucketWithWebsite: "with websites",
	scout.BucketSocialsOnly: "with socials",
	scout.BucketNoContact:   "without websites",
}

// sheetHeader is the first row of every worksheet. Column order is part of
// the output contract; downstream consumers address columns by position.
var sheetHeader = []string{
	"Location",
	"Name",
	"Rating",
	"Review Count",
	"Phone",
	"Address",
	"Website",
	"Category",
	"Emails",
	"Instagram",
	"Facebook",
	"Twitter",
	"WhatsApp",
	"Telegram",
	"Messenger",
	"LINE",
}

// sheetRow renders one candidate as a worksheet row matching sheetHeader.
func sheetRow(region string, c scout.Candidate) []any {
	website := c.WebsiteURL
	if website == "" {
		website = missingWebsite
	}
	category := strings.Join(c.Categories, ", ")
	if category == "" {
		category = "unknown"
	}
	return []any{
		region,
		c.Name,
		fmt.Sprintf("%.1f", c.Rating),
		fmt.Sprintf("%d", c.ReviewCount),
		c.Phone,
		c.Address,
		website,
		category,
		strings.Join(c.Contacts.Emails, ", "),
		c.Contacts.Instagram,
		c.Contacts.Facebook,
		c.Contacts.Twitter,
		c.Contacts.WhatsApp,
		c.Contacts.Telegram,
		c.Contacts.Messenger,
		c.Contacts.Line,
	}
}
