// Package scout implements the place-discovery and contact-enrichment
// pipeline: a multi-query sweep of the mapping provider, provider-ID
// deduplication, quality filtering, and a best-effort website crawl that
// extracts contact channels.
package scout

import (
	"github.com/paulmach/orb"

	"github.com/marchworks/leadscout/internal/contacts"
)

// Bucket classifies a place's contactability.
type Bucket string

// The three bucket states. A candidate always carries exactly one.
const (
	BucketWithWebsite Bucket = "with_website"
	BucketSocialsOnly Bucket = "with_socials_only"
	BucketNoContact   Bucket = "without_contact"
)

// BucketOrder fixes the partition order used by sinks.
var BucketOrder = []Bucket{BucketWithWebsite, BucketSocialsOnly, BucketNoContact}

// Candidate is one deduplicated place surfaced by the sweep. It is created
// on the first sighting of its provider ID and immutable afterwards except
// for the enrichment fields (Contacts, Bucket).
type Candidate struct {
	ProviderID  string          `json:"provider_id"`
	Name        string          `json:"name"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	MapsURL     string          `json:"maps_url,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	WebsiteURL  string          `json:"website_url,omitempty"`
	Query       string          `json:"query"`
	Bucket      Bucket          `json:"bucket,omitempty"`
	Contacts    contacts.Bundle `json:"contacts"`
}

// HasWebsite reports whether the provider returned any website link.
func (c Candidate) HasWebsite() bool { return c.WebsiteURL != "" }

// Query is one planned provider search. Category set means category-scoped
// mode; otherwise Text is sent as a free-text query. Queries are ephemeral
// and never persisted.
type Query struct {
	Text         string
	Category     string
	Center       orb.Point
	RadiusMeters float64
}

// Tag is the origin label recorded on candidates first seen by this query.
func (q Query) Tag() string {
	if q.Category != "" {
		return "category:" + q.Category
	}
	return "text:" + q.Text
}

// Partition groups candidates sharing a bucket, in sink order.
type Partition struct {
	Bucket Bucket
	Places []Candidate
}

// PartitionByBucket splits candidates into the three buckets, preserving
// input order inside each partition.
func PartitionByBucket(list []Candidate) []Partition {
	grouped := make(map[Bucket][]Candidate, len(BucketOrder))
	for _, c := range list {
		grouped[c.Bucket] = append(grouped[c.Bucket], c)
	}
	out := make([]Partition, 0, len(BucketOrder))
	for _, b := range BucketOrder {
		out = append(out, Partition{Bucket: b, Places: grouped[b]})
	}
	return out
}

// Batch is what sinks receive: the full partitioned result set plus run
// metadata.
type Batch struct {
	RunID      string
	Region     string
	Append     bool
	Partitions []Partition
}

// Summary is the user-visible outcome of a run.
type Summary struct {
	RunID        string
	Region       string
	QueriesRun   int
	RawResults   int
	Duplicates   int
	Kept         int
	BucketCounts map[Bucket]int
	SnapshotPath string
}
