package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/platform/postgres"
	"github.com/lfarias/loyalty-api/internal/store"
	"github.com/lfarias/loyalty-api/internal/testutils"
)

func mustNewReferral(t *testing.T, sourceCPF, targetCPF string, createdAt time.Time) *domain.Referral {
	t.Helper()
	referral, err := domain.NewReferral(sourceCPF, targetCPF, createdAt)
	require.NoError(t, err)
	return referral
}

func TestPostgresReferralStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		referral := mustNewReferral(t, "52998224725", "11144477735", now)
		require.NoError(t, referralStore.Create(ctx, referral))
		assert.NotZero(t, referral.ID, "store must assign the surrogate ID")

		got, err := referralStore.GetByTarget(ctx, "11144477735")
		require.NoError(t, err)
		assert.Equal(t, referral.ID, got.ID)
		assert.Equal(t, "52998224725", got.SourceCPF)
		assert.False(t, got.Status)
	})
}

func TestPostgresReferralStore_CreateDuplicateTarget(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, referralStore.Create(ctx,
			mustNewReferral(t, "52998224725", "11144477735", now)))

		err := referralStore.Create(ctx,
			mustNewReferral(t, "98765432100", "11144477735", now))
		assert.ErrorIs(t, err, store.ErrTargetReferred)
	})
}

func TestPostgresReferralStore_GetMissing(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		_, err := referralStore.GetByTarget(ctx, "99999999999")
		assert.ErrorIs(t, err, store.ErrReferralNotFound)
	})
}

func TestPostgresReferralStore_Lists(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		first := mustNewReferral(t, "52998224725", "11144477735", now)
		second := mustNewReferral(t, "52998224725", "22222222222", now)
		other := mustNewReferral(t, "98765432100", "33333333333", now)
		require.NoError(t, referralStore.Create(ctx, first))
		require.NoError(t, referralStore.Create(ctx, second))
		require.NoError(t, referralStore.Create(ctx, other))

		all, err := referralStore.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		bySource, err := referralStore.ListBySource(ctx, "52998224725")
		require.NoError(t, err)
		require.Len(t, bySource, 2)
		assert.Equal(t, first.ID, bySource[0].ID, "listing is ordered by ID")
		assert.Equal(t, second.ID, bySource[1].ID)

		none, err := referralStore.ListBySource(ctx, "00000000000")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestPostgresReferralStore_ExistsByTarget(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		require.NoError(t, referralStore.Create(ctx,
			mustNewReferral(t, "52998224725", "11144477735", now)))

		exists, err := referralStore.ExistsByTarget(ctx, "11144477735")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = referralStore.ExistsByTarget(ctx, "99999999999")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestPostgresReferralStore_Update(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		referral := mustNewReferral(t, "52998224725", "11144477735", now)
		require.NoError(t, referralStore.Create(ctx, referral))

		require.True(t, referral.Accept(now.Add(time.Hour)))
		require.NoError(t, referralStore.Update(ctx, referral))

		got, err := referralStore.GetByTarget(ctx, "11144477735")
		require.NoError(t, err)
		assert.True(t, got.Status)
	})
}

func TestPostgresReferralStore_UpdateMissing(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		referral := mustNewReferral(t, "52998224725", "11144477735", now)
		referral.ID = 999999999

		err := referralStore.Update(ctx, referral)
		assert.ErrorIs(t, err, store.ErrReferralNotFound)
	})
}

func TestPostgresReferralStore_DeleteExpiredPending(t *testing.T) {
	t.Parallel()
	db := testutils.GetTestDB(t)
	ctx := context.Background()

	testutils.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		referralStore := postgres.NewPostgresReferralStore(tx, nil)

		now := time.Now().UTC().Truncate(time.Microsecond)
		old := now.Add(-31 * 24 * time.Hour)

		expired := mustNewReferral(t, "52998224725", "11144477735", old)
		require.NoError(t, referralStore.Create(ctx, expired))

		fresh := mustNewReferral(t, "52998224725", "22222222222", now)
		require.NoError(t, referralStore.Create(ctx, fresh))

		// Accepted referrals never expire, however old they are.
		acceptedOld := mustNewReferral(t, "98765432100", "33333333333", old)
		require.NoError(t, referralStore.Create(ctx, acceptedOld))
		require.True(t, acceptedOld.Accept(now))
		require.NoError(t, referralStore.Update(ctx, acceptedOld))

		deleted, err := referralStore.DeleteExpiredPending(ctx, now.Add(-domain.ReferralTTL))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = referralStore.GetByTarget(ctx, "11144477735")
		assert.ErrorIs(t, err, store.ErrReferralNotFound, "expired pending row is physically removed")

		_, err = referralStore.GetByTarget(ctx, "22222222222")
		assert.NoError(t, err)

		got, err := referralStore.GetByTarget(ctx, "33333333333")
		require.NoError(t, err)
		assert.True(t, got.Status)
	})
}
