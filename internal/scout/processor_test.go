package scout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marchworks/leadscout/internal/contacts"
)

var testPlatformDomains = []string{
	"facebook.com", "instagram.com", "twitter.com", "x.com",
	"wa.me", "t.me", "m.me", "line.me",
	"foodpanda", "grab.com", "tripadvisor", "booking.com", "agoda.com",
}

func newTestProcessor() *Processor {
	return NewProcessor(testPlatformDomains, "", zap.NewNop())
}

func TestProcessor_FilterInclusiveBounds(t *testing.T) {
	in := []Candidate{
		{ProviderID: "exact", Rating: 4.0, ReviewCount: 10},
		{ProviderID: "above", Rating: 4.8, ReviewCount: 50},
		{ProviderID: "low-rating", Rating: 3.9, ReviewCount: 100},
		{ProviderID: "few-reviews", Rating: 5.0, ReviewCount: 9},
	}
	got := newTestProcessor().Process(in, 4.0, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].ProviderID, "bounds are inclusive")
	assert.Equal(t, "above", got[1].ProviderID)
}

func TestProcessor_InitialBucket(t *testing.T) {
	tests := []struct {
		name    string
		website string
		want    Bucket
	}{
		{name: "standalone site", website: "https://coffeehouse.co.th", want: BucketWithWebsite},
		{name: "no site", website: "", want: BucketNoContact},
		{name: "social platform link", website: "https://instagram.com/coffeehouse", want: BucketNoContact},
		{name: "booking platform link", website: "https://www.booking.com/hotel/th/x", want: BucketNoContact},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := []Candidate{{ProviderID: "p1", Rating: 4.5, ReviewCount: 5, WebsiteURL: tc.website}}
			got := newTestProcessor().Process(in, 0, 0)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0].Bucket)
		})
	}
}

func TestProcessor_Idempotent(t *testing.T) {
	in := []Candidate{
		{ProviderID: "p1", Rating: 4.2, ReviewCount: 50, WebsiteURL: "https://a.test", Phone: "weird"},
		{ProviderID: "p2", Rating: 3.0, ReviewCount: 1},
	}
	p := newTestProcessor()
	first := p.Process(in, 4.0, 0)
	second := p.Process(in, 4.0, 0)
	assert.Equal(t, first, second)

	// Input is untouched.
	assert.Empty(t, in[0].Bucket)
}

func TestProcessor_PhoneNormalization(t *testing.T) {
	p := NewProcessor(nil, "TH", zap.NewNop())
	in := []Candidate{
		{ProviderID: "p1", Rating: 5, ReviewCount: 1, Phone: "081 234 5678"},
		{ProviderID: "p2", Rating: 5, ReviewCount: 1, Phone: "not a number"},
	}
	got := p.Process(in, 0, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "+66812345678", got[0].Phone)
	assert.Equal(t, "not a number", got[1].Phone, "unparseable numbers kept verbatim")
}

func TestReclassifier(t *testing.T) {
	r := Reclassifier{}

	tests := []struct {
		name string
		c    Candidate
		want Bucket
	}{
		{
			name: "website never downgraded",
			c:    Candidate{Bucket: BucketWithWebsite},
			want: BucketWithWebsite,
		},
		{
			name: "socials promote",
			c: Candidate{
				Bucket:   BucketNoContact,
				Contacts: contacts.Bundle{Instagram: "https://instagram.com/x"},
			},
			want: BucketSocialsOnly,
		},
		{
			name: "emails alone do not promote",
			c: Candidate{
				Bucket:   BucketNoContact,
				Contacts: contacts.Bundle{Emails: []string{"a@b.io"}},
			},
			want: BucketNoContact,
		},
		{name: "nothing found", c: Candidate{Bucket: BucketNoContact}, want: BucketNoContact},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Reclassify(tc.c))
		})
	}
}

func TestPartitionByBucket(t *testing.T) {
	list := []Candidate{
		{ProviderID: "a", Bucket: BucketNoContact},
		{ProviderID: "b", Bucket: BucketWithWebsite},
		{ProviderID: "c", Bucket: BucketSocialsOnly},
		{ProviderID: "d", Bucket: BucketWithWebsite},
	}
	parts := PartitionByBucket(list)
	require.Len(t, parts, 3)
	assert.Equal(t, BucketWithWebsite, parts[0].Bucket)
	assert.Len(t, parts[0].Places, 2)
	assert.Equal(t, "b", parts[0].Places[0].ProviderID)
	assert.Len(t, parts[1].Places, 1)
	assert.Len(t, parts[2].Places, 1)
}
