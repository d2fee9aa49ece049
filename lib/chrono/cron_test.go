package chrono

import (
	"errors"
	"testing"
	"time"

	"jetcargo-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestCron(t *testing.T) {
	tel := &telemetry.Recorder{}
	cron := NewStandardCron(tel)
	defer cron.Stop()

	ran := make(chan struct{}, 1)
	err := cron.Cron("@every 1s", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}

	require.Error(t, cron.Cron("not a spec", func() {}))
}

func TestCronLogger(t *testing.T) {
	tel := &telemetry.Recorder{}
	logger := cronLogger{tel: tel}

	logger.Info("schedule", "entry", 1, "next", "soon")
	logger.Error(errors.New("boom"), "run", "entry", 1)

	debug := tel.Reports("debug")
	require.Len(t, debug, 1)
	require.Equal(t, "cron: schedule", debug[0].Id)
	require.Equal(t, []any{"entry: 1", "next: soon"}, debug[0].Params)

	broken := tel.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "cron", broken[0].Id)
	require.Len(t, broken[0].Params, 2)
}
