package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/marchworks/leadscout/internal/contacts"
	"github.com/marchworks/leadscout/internal/scout"
)

func placeBatch() scout.Batch {
	c := scout.Candidate{
		ProviderID:  "p1",
		Name:        "Coffee House",
		Rating:      4.5,
		ReviewCount: 120,
		Phone:       "+66812345678",
		Address:     "12 Beach Rd",
		Categories:  []string{"cafe", "restaurant"},
		WebsiteURL:  "https://coffeehouse.test",
		Bucket:      scout.BucketWithWebsite,
		Contacts: contacts.Bundle{
			Emails:    []string{"hello@coffeehouse.test", "jobs@coffeehouse.test"},
			Instagram: "https://instagram.com/coffeehouse",
		},
	}
	return scout.Batch{
		RunID:      "run-1",
		Region:     "Ko Pha-ngan",
		Partitions: scout.PartitionByBucket([]scout.Candidate{c}),
	}
}

func TestPlaceStoreWriteUpsertsRow(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPlaceStoreWithPool(mock, "places")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO places").
		WithArgs(
			"Ko Pha-ngan",
			"Coffee House",
			4.5,
			120,
			"+66812345678",
			"12 Beach Rd",
			"https://coffeehouse.test",
			"cafe, restaurant",
			true,
			"with_website",
			"hello@coffeehouse.test, jobs@coffeehouse.test",
			"https://instagram.com/coffeehouse",
			"", "", "", "", "", "",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Write(context.Background(), placeBatch()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceStoreEnsureSchema(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPlaceStoreWithPool(mock, "places")
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS places").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceStoreWritePropagatesExecError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store, err := NewPlaceStoreWithPool(mock, "places")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO places").
		WillReturnError(errors.New("connection reset"))

	require.Error(t, store.Write(context.Background(), placeBatch()))
}

func TestNewPlaceStoreWithPoolValidatesTable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewPlaceStoreWithPool(mock, "places; DROP TABLE places")
	require.Error(t, err)

	store, err := NewPlaceStoreWithPool(mock, "")
	require.NoError(t, err)
	require.Equal(t, "postgres", store.Name())
}
