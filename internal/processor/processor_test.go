package processor_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-replay-engine/internal/engine"
	"github.com/sheikh-saqib/payments-replay-engine/internal/models"
	"github.com/sheikh-saqib/payments-replay-engine/internal/processor"
	"github.com/sheikh-saqib/payments-replay-engine/internal/storage/memory"
)

func run(t *testing.T, input string) (string, error) {
	t.Helper()
	store := memory.NewMemoryTransactionStore()
	eng := engine.NewProcessingEngine(store, nil)
	p := processor.New(eng, store)

	var out bytes.Buffer
	err := p.Run(context.Background(), strings.NewReader(input), &out)
	return out.String(), err
}

func TestRun_EndToEnd(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.0
deposit,2,2,2.0
deposit,1,3,2.0
withdrawal,1,4,1.5
withdrawal,2,5,3.0
`
	want := `client,available,held,total,locked
1,1.5000,0.0000,1.5000,false
2,2.0000,0.0000,2.0000,false
`

	out, err := run(t, input)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestRun_DisputeLifecycle(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,0.0500
dispute,1,1
chargeback,1,1
`
	want := `client,available,held,total,locked
1,0.0000,0.0000,0.0000,true
`

	out, err := run(t, input)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestRun_TrimsWhitespaceAndAllowsShortRows(t *testing.T) {
	// Dispute rows carry no amount field at all; every field may be padded.
	input := `type, client, tx, amount
deposit, 1, 1, 5.0
dispute, 1, 1
`
	want := `client,available,held,total,locked
1,0.0000,5.0000,5.0000,false
`

	out, err := run(t, input)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestRun_DisputingUnknownTransactionIsNotFatal(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.0
dispute,1,99
dispute,2,1
`
	want := `client,available,held,total,locked
1,1.0000,0.0000,1.0000,false
`

	out, err := run(t, input)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestRun_StructuralErrorsAbort(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{
			"unrecognized transaction type",
			"type,client,tx,amount\ntransfer,1,1,1.0\n",
		},
		{
			"type case matters",
			"type,client,tx,amount\nDeposit,1,1,1.0\n",
		},
		{
			"missing amount on deposit",
			"type,client,tx,amount\ndeposit,1,1\n",
		},
		{
			"amount without fractional part",
			"type,client,tx,amount\ndeposit,1,1,5\n",
		},
		{
			"non-numeric client",
			"type,client,tx,amount\ndeposit,abc,1,1.0\n",
		},
		{
			"client out of range",
			"type,client,tx,amount\ndeposit,70000,1,1.0\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestRun_EmptyFileFails(t *testing.T) {
	_, err := run(t, "")
	assert.Error(t, err, "a file without a header is malformed")
}

func TestRun_HeaderOnlyProducesEmptyReport(t *testing.T) {
	out, err := run(t, "type,client,tx,amount\n")
	require.NoError(t, err)
	assert.Equal(t, "client,available,held,total,locked\n", out)
}

func TestWriteReport(t *testing.T) {
	accounts := []models.Account{
		{Client: 1, Available: 15000, Held: 0, Total: 15000},
		{Client: 2, Available: 0, Held: 0, Total: 0, Locked: true},
	}

	var out bytes.Buffer
	require.NoError(t, processor.WriteReport(&out, accounts))

	want := `client,available,held,total,locked
1,1.5000,0.0000,1.5000,false
2,0.0000,0.0000,0.0000,true
`
	assert.Equal(t, want, out.String())
}
