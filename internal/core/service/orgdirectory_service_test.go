package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fergoeqs/second-service/internal/core/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForwarder struct {
	calls  int
	body   []byte
	result *domain.UpstreamResult
	err    error
}

func (f *fakeForwarder) Search(ctx context.Context, body []byte) (*domain.UpstreamResult, error) {
	f.calls++
	f.body = body
	return f.result, f.err
}

func TestFilterByTurnoverForwardsQuery(t *testing.T) {
	fwd := &fakeForwarder{result: &domain.UpstreamResult{StatusCode: 200, Body: []byte(`{"organizations":[]}`)}}
	svc := NewOrgDirectoryService(fwd, zerolog.Nop())

	res, err := svc.FilterByTurnover(context.Background(), domain.TurnoverFilter{
		Min: ptr(int64(10)), Max: ptr(int64(1000)), Page: 2, Size: domain.DefaultSize,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fwd.calls)
	assert.JSONEq(t,
		`{"filters":[{"field":"annualTurnover","operator":"between","value":[10,1000]}],"page":2,"size":20}`,
		string(fwd.body))
	assert.Equal(t, `{"organizations":[]}`, string(res.Body))
}

func TestFilterByTurnoverRejectsBeforeForwarding(t *testing.T) {
	fwd := &fakeForwarder{}
	svc := NewOrgDirectoryService(fwd, zerolog.Nop())

	_, err := svc.FilterByTurnover(context.Background(), domain.TurnoverFilter{
		Min: ptr(int64(100)), Max: ptr(int64(50)), Size: domain.DefaultSize,
	})

	require.True(t, IsValidationError(err))
	assert.Equal(t, MsgInvalidTurnoverRange, err.Error())
	assert.Zero(t, fwd.calls)
}

func TestOrderOrganizations(t *testing.T) {
	body := []byte(`{"sort":[{"field":"name","direction":"desc"}],"page":1}`)

	fwd := &fakeForwarder{result: &domain.UpstreamResult{StatusCode: 200, Body: []byte(`{}`)}}
	svc := NewOrgDirectoryService(fwd, zerolog.Nop())

	_, err := svc.OrderOrganizations(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, 1, fwd.calls)
	assert.Equal(t, string(body), string(fwd.body))
}

func TestOrderOrganizationsMissingSort(t *testing.T) {
	fwd := &fakeForwarder{}
	svc := NewOrgDirectoryService(fwd, zerolog.Nop())

	_, err := svc.OrderOrganizations(context.Background(), []byte(`{"page":1}`))
	require.True(t, IsValidationError(err))
	assert.Equal(t, MsgMissingSort, err.Error())
	assert.Zero(t, fwd.calls)
}

func TestForwarderErrorsPropagate(t *testing.T) {
	upstreamErr := errors.New("connection refused")
	fwd := &fakeForwarder{err: upstreamErr}
	svc := NewOrgDirectoryService(fwd, zerolog.Nop())

	_, err := svc.OrderOrganizations(context.Background(), []byte(`{"sort":"id"}`))
	assert.ErrorIs(t, err, upstreamErr)
	assert.False(t, IsValidationError(err))
}
