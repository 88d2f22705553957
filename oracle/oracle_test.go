package oracle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/babylonchain/finality-verifier/oracle"
	"github.com/babylonchain/finality-verifier/pubrand"
)

func TestMemoryOracleAccumulatesTotalPower(t *testing.T) {
	o := oracle.NewMemoryOracle(10)

	var fp1, fp2 pubrand.FPKey
	fp1[0] = 1
	fp2[0] = 2

	o.SetVotingPower(1, 100, fp1, 60)
	o.SetVotingPower(1, 100, fp2, 40)

	require.Equal(t, uint64(100), o.TotalVotingPower(1, 100))
	require.Equal(t, uint64(60), o.VotingPowerFor(1, 100, fp1))
	require.Equal(t, uint64(40), o.VotingPowerFor(1, 100, fp2))
	require.Equal(t, uint64(10), o.CurrentL2Block())
}

func TestMemoryOracleOverwriteUpdatesTotal(t *testing.T) {
	o := oracle.NewMemoryOracle(0)
	var fp pubrand.FPKey
	fp[0] = 1

	o.SetVotingPower(1, 5, fp, 30)
	o.SetVotingPower(1, 5, fp, 50)

	require.Equal(t, uint64(50), o.VotingPowerFor(1, 5, fp))
	require.Equal(t, uint64(50), o.TotalVotingPower(1, 5))
}

func TestMemoryOracleLookupUnknownSnapshot(t *testing.T) {
	o := oracle.NewMemoryOracle(0)
	var fp pubrand.FPKey
	_, err := o.Lookup(9, 9, fp)
	require.ErrorIs(t, err, oracle.ErrUnknownSnapshot)
}

type flakyBackend struct {
	failuresLeft int
}

func (b *flakyBackend) CurrentL2Block(ctx context.Context) (uint64, error) {
	if b.failuresLeft > 0 {
		b.failuresLeft--
		return 0, errors.New("transient")
	}
	return 42, nil
}

func (b *flakyBackend) TotalVotingPower(ctx context.Context, chainID uint32, atBlock uint64) (uint64, error) {
	return 0, nil
}

func (b *flakyBackend) VotingPowerFor(ctx context.Context, chainID uint32, atBlock uint64, fpKey pubrand.FPKey) (uint64, error) {
	return 0, nil
}

func TestRetryingOracleRetriesTransientFailures(t *testing.T) {
	backend := &flakyBackend{failuresLeft: 2}
	ro := oracle.NewRetryingOracle(backend, 5)

	v, err := ro.CurrentL2BlockCtx(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)
}

func TestRetryingOracleSurfacesPersistentFailure(t *testing.T) {
	backend := &flakyBackend{failuresLeft: 10}
	ro := oracle.NewRetryingOracle(backend, 2)

	_, err := ro.CurrentL2BlockCtx(context.Background())
	require.Error(t, err)
}
