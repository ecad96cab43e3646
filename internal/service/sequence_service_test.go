package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"indentflow/internal/numbering"
	"indentflow/internal/service"
	"indentflow/mocks"
)

type sequenceFixture struct {
	svc        service.SequenceService
	seqRepo    *mocks.MockSequenceRepo
	indentRepo *mocks.MockIndentRepo
	poRepo     *mocks.MockPurchaseOrderRepo
	liftRepo   *mocks.MockLiftRepo
}

func newSequenceFixture() *sequenceFixture {
	f := &sequenceFixture{
		seqRepo:    new(mocks.MockSequenceRepo),
		indentRepo: new(mocks.MockIndentRepo),
		poRepo:     new(mocks.MockPurchaseOrderRepo),
		liftRepo:   new(mocks.MockLiftRepo),
	}
	f.svc = service.NewSequenceService(f.seqRepo, f.indentRepo, f.poRepo, f.liftRepo, zap.NewNop())
	return f
}

func TestSequenceService_Next_Formats(t *testing.T) {
	f := newSequenceFixture()
	tenantID := uuid.New()
	f.seqRepo.On("Next", mock.Anything, tenantID, "PO").Return(int64(12), nil).Once()
	f.seqRepo.On("Next", mock.Anything, tenantID, "SI").Return(int64(10000), nil).Once()

	po, err := f.svc.Next(context.Background(), tenantID, numbering.PrefixPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, "PO-0012", po)

	si, err := f.svc.Next(context.Background(), tenantID, numbering.PrefixIndent)
	require.NoError(t, err)
	assert.Equal(t, "SI-10000", si)
}

func TestSequenceService_Next_RepoError(t *testing.T) {
	f := newSequenceFixture()
	tenantID := uuid.New()
	boom := errors.New("connection reset")
	f.seqRepo.On("Next", mock.Anything, tenantID, "LF").Return(int64(0), boom)

	_, err := f.svc.Next(context.Background(), tenantID, numbering.PrefixLift)
	assert.ErrorIs(t, err, boom)
}

func TestSequenceService_AdvanceTo_IgnoresNonPositive(t *testing.T) {
	f := newSequenceFixture()

	require.NoError(t, f.svc.AdvanceTo(context.Background(), uuid.New(), numbering.PrefixIndent, 0))
	f.seqRepo.AssertNotCalled(t, "AdvanceTo", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSequenceService_Align(t *testing.T) {
	f := newSequenceFixture()
	tenantID := uuid.New()
	f.indentRepo.On("ListNumbers", mock.Anything, tenantID).Return([]string{"SI-0003", "SI-0120", "legacy-7"}, nil)
	f.poRepo.On("ListNumbers", mock.Anything, tenantID).Return([]string{}, nil)
	f.liftRepo.On("ListNumbers", mock.Anything, tenantID).Return([]string{"LF-0009"}, nil)
	f.seqRepo.On("AdvanceTo", mock.Anything, tenantID, "SI", int64(120)).Return(nil)
	f.seqRepo.On("AdvanceTo", mock.Anything, tenantID, "LF", int64(9)).Return(nil)
	f.seqRepo.On("Current", mock.Anything, tenantID, "SI").Return(int64(120), nil)
	f.seqRepo.On("Current", mock.Anything, tenantID, "PO").Return(int64(4), nil)
	f.seqRepo.On("Current", mock.Anything, tenantID, "LF").Return(int64(15), nil)

	got, err := f.svc.Align(context.Background(), tenantID)
	require.NoError(t, err)

	assert.Equal(t, map[numbering.Prefix]int64{
		numbering.PrefixIndent:        120,
		numbering.PrefixPurchaseOrder: 4,
		numbering.PrefixLift:          15,
	}, got)
	f.seqRepo.AssertNotCalled(t, "AdvanceTo", mock.Anything, tenantID, "PO", mock.Anything)
}
