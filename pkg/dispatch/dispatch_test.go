package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/neuracontrol/pkg/device"
	"github.com/urmzd/neuracontrol/pkg/llm"
	"github.com/urmzd/neuracontrol/pkg/serial"
	"github.com/urmzd/neuracontrol/pkg/serial/serialtest"
	bugst "go.bug.st/serial"
)

type fakeGenerator struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (g *fakeGenerator) GenerateReply(ctx context.Context, system, user string) (string, error) {
	g.calls++
	g.system, g.user = system, user
	return g.reply, g.err
}

type rig struct {
	reg *device.Registry
	fw  *serialtest.Firmware
	gen *fakeGenerator
	orc *Orchestrator
}

func newRig(t *testing.T, reply string, mode SessionMode) *rig {
	t.Helper()
	reg := device.MustDefaultRegistry()
	fw := serialtest.NewFirmware(reg)
	tr := serial.NewTransport(serial.Options{BaudRate: 9600}, serial.WithOpener(fw.Opener()))
	gen := &fakeGenerator{reply: reply}
	return &rig{
		reg: reg,
		fw:  fw,
		gen: gen,
		orc: New(reg, gen, NewSerialActuator(tr, "COM4", mode)),
	}
}

func TestDispatchEndToEnd(t *testing.T) {
	r := newRig(t, "Sure! LIGHTS ON, done.", SessionPerCommand)

	res, err := r.orc.Dispatch(context.Background(), "please enable the lights")
	require.NoError(t, err)

	assert.Equal(t, "Sure! LIGHTS ON, done.", res.Reply)
	assert.Equal(t, "please enable the lights", r.gen.user)
	assert.Equal(t, llm.DefaultSystemPrompt, r.gen.system)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "serial:COM4", res.Actuator)

	require.Len(t, res.Outcomes, 1)
	o := res.Outcomes[0]
	assert.Equal(t, "lights", o.Device)
	assert.True(t, o.State)
	assert.True(t, o.Success)
	assert.False(t, o.Simulated)
	assert.Equal(t, "7", o.Code)

	on, set := r.fw.State("lights")
	assert.True(t, set)
	assert.True(t, on)
}

func TestDispatchOrdersOutcomesByRegistry(t *testing.T) {
	r := newRig(t, "LIGHTS OFF, HEATER ON and LED ON.", SessionPerCommand)

	res, err := r.orc.Dispatch(context.Background(), "cosy evening")
	require.NoError(t, err)

	var ids []string
	for _, o := range res.Outcomes {
		ids = append(ids, o.Device)
	}
	assert.Equal(t, []string{"led", "heater", "lights"}, ids)
	assert.Equal(t, []byte("156"), r.fw.Received())
}

func TestDispatchPerCommandSessions(t *testing.T) {
	r := newRig(t, "LED ON FAN ON HEATER OFF", SessionPerCommand)

	_, err := r.orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, 3, r.fw.Opens())
	assert.Equal(t, 3, r.fw.Closes())
}

func TestDispatchPerDispatchSession(t *testing.T) {
	r := newRig(t, "LED ON FAN ON HEATER OFF", SessionPerDispatch)

	res, err := r.orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)

	assert.Len(t, res.Outcomes, 3)
	assert.Equal(t, 1, r.fw.Opens())
	assert.Equal(t, 1, r.fw.Closes())
	assert.Equal(t, []byte("134"), r.fw.Received())
}

func TestDispatchLLMError(t *testing.T) {
	r := newRig(t, "", SessionPerCommand)
	r.gen.err = errors.New("quota exceeded")

	res, err := r.orc.Dispatch(context.Background(), "turn on the fan")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrLLM)

	require.NotNil(t, res)
	assert.Empty(t, res.Outcomes)
	assert.Empty(t, res.Reply)
	assert.Equal(t, 0, r.fw.Opens(), "no transport call on LLM failure")
	assert.Equal(t, 1, r.gen.calls, "no retry")
}

func TestDispatchNoGenerator(t *testing.T) {
	orc := New(device.MustDefaultRegistry(), nil, nil)

	res, err := orc.Dispatch(context.Background(), "x")
	assert.ErrorIs(t, err, llm.ErrLLM)
	assert.Empty(t, res.Outcomes)
}

func TestDispatchNoCommands(t *testing.T) {
	r := newRig(t, "I am not sure what you mean.", SessionPerCommand)

	res, err := r.orc.Dispatch(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, res.Outcomes)
	assert.Equal(t, 0, r.fw.Opens())
}

func TestDispatchUnreachableFallsBackToSimulated(t *testing.T) {
	for _, mode := range []SessionMode{SessionPerCommand, SessionPerDispatch} {
		t.Run(string(mode), func(t *testing.T) {
			r := newRig(t, "LED ON, FAN OFF, LIGHTS ON", mode)
			r.fw.OpenErr = serialtest.ErrUnplugged

			res, err := r.orc.Dispatch(context.Background(), "x")
			require.NoError(t, err)

			require.Len(t, res.Outcomes, 3)
			for _, o := range res.Outcomes {
				assert.True(t, o.Success, o.Device)
				assert.True(t, o.Simulated, o.Device)
				assert.Equal(t, ReasonUnreachable, o.Reason)
			}
			assert.Empty(t, r.fw.Received())
		})
	}
}

func TestDispatchWriteFailureDoesNotAbort(t *testing.T) {
	r := newRig(t, "LED ON, FAN OFF", SessionPerCommand)
	r.fw.WriteErr = errors.New("device disconnected")

	res, err := r.orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 2)
	for _, o := range res.Outcomes {
		assert.False(t, o.Success)
		assert.False(t, o.Simulated)
		assert.Equal(t, ReasonWrite, o.Reason)
		assert.ErrorIs(t, o.Err, serial.ErrWrite)
		assert.NotEmpty(t, o.Error)
	}
	assert.Equal(t, 2, r.fw.Opens())
	assert.Equal(t, 2, r.fw.Closes())
}

func TestDispatchConnectionLostMidway(t *testing.T) {
	reg := device.MustDefaultRegistry()
	fw := serialtest.NewFirmware(reg)
	inner := fw.Opener()
	opens := 0
	// Succeeds for the first open, then the board disappears.
	opener := func(name string, mode *bugst.Mode) (serial.Port, error) {
		opens++
		if opens > 1 {
			return nil, serialtest.ErrUnplugged
		}
		return inner(name, mode)
	}
	tr := serial.NewTransport(serial.Options{BaudRate: 9600}, serial.WithOpener(opener))
	orc := New(reg, &fakeGenerator{reply: "LED ON FAN ON"}, NewSerialActuator(tr, "COM4", SessionPerCommand))

	res, err := orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)

	assert.True(t, res.Outcomes[0].Success)
	assert.False(t, res.Outcomes[0].Simulated)

	assert.False(t, res.Outcomes[1].Success)
	assert.False(t, res.Outcomes[1].Simulated)
	assert.Equal(t, ReasonConnection, res.Outcomes[1].Reason)
	assert.ErrorIs(t, res.Outcomes[1].Err, serial.ErrConnection)
}

func TestDispatchTriesEveryOpen(t *testing.T) {
	reg := device.MustDefaultRegistry()
	fw := serialtest.NewFirmware(reg)
	inner := fw.Opener()
	attempts := 0
	// The first open fails, the board answers afterwards.
	opener := func(name string, mode *bugst.Mode) (serial.Port, error) {
		attempts++
		if attempts == 1 {
			return nil, serialtest.ErrUnplugged
		}
		return inner(name, mode)
	}
	tr := serial.NewTransport(serial.Options{BaudRate: 9600}, serial.WithOpener(opener))
	orc := New(reg, &fakeGenerator{reply: "LED ON FAN ON"}, NewSerialActuator(tr, "COM4", SessionPerCommand))

	res, err := orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)

	assert.False(t, res.Outcomes[0].Success)
	assert.False(t, res.Outcomes[0].Simulated)
	assert.Equal(t, ReasonConnection, res.Outcomes[0].Reason)

	assert.True(t, res.Outcomes[1].Success)
	assert.False(t, res.Outcomes[1].Simulated)
	assert.Equal(t, []byte("3"), fw.Received())
	assert.Equal(t, 2, attempts)
}

func TestDispatchUnreachableAttemptsEachDevice(t *testing.T) {
	attempts := 0
	opener := func(name string, mode *bugst.Mode) (serial.Port, error) {
		attempts++
		return nil, serialtest.ErrUnplugged
	}
	tr := serial.NewTransport(serial.Options{BaudRate: 9600}, serial.WithOpener(opener))
	orc := New(device.MustDefaultRegistry(), &fakeGenerator{reply: "LED ON, FAN OFF, LIGHTS ON"}, NewSerialActuator(tr, "COM4", SessionPerCommand))

	res, err := orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 3)
	for _, o := range res.Outcomes {
		assert.True(t, o.Simulated, o.Device)
		assert.Equal(t, ReasonUnreachable, o.Reason)
	}
	assert.Equal(t, 3, attempts)
}

func TestDispatchDeadlineDuringSettle(t *testing.T) {
	for _, mode := range []SessionMode{SessionPerCommand, SessionPerDispatch} {
		t.Run(string(mode), func(t *testing.T) {
			reg := device.MustDefaultRegistry()
			fw := serialtest.NewFirmware(reg)
			tr := serial.NewTransport(serial.Options{BaudRate: 9600, SettleDelay: time.Second}, serial.WithOpener(fw.Opener()))
			orc := New(reg, &fakeGenerator{reply: "LED ON FAN ON"}, NewSerialActuator(tr, "COM4", mode))

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			res, err := orc.Dispatch(ctx, "x")
			require.NoError(t, err)
			require.Len(t, res.Outcomes, 2)
			for _, o := range res.Outcomes {
				assert.False(t, o.Success, o.Device)
				assert.False(t, o.Simulated, o.Device)
				assert.Equal(t, ReasonTimeout, o.Reason, o.Device)
				assert.ErrorIs(t, o.Err, serial.ErrTimeout)
			}
			assert.Empty(t, fw.Received())
			assert.Equal(t, 1, fw.Opens())
			assert.Equal(t, 1, fw.Closes())
		})
	}
}

func TestDispatchSimulatedActuator(t *testing.T) {
	orc := New(device.MustDefaultRegistry(), &fakeGenerator{reply: "Sure! LIGHTS ON, done."}, NewSimulatedActuator())

	res, err := orc.Dispatch(context.Background(), "please enable the lights")
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, "lights", res.Outcomes[0].Device)
	assert.True(t, res.Outcomes[0].Success)
	assert.True(t, res.Outcomes[0].Simulated)
	assert.Equal(t, ReasonDemo, res.Outcomes[0].Reason)
	assert.Equal(t, "simulated", res.Actuator)
}

func TestWithSystemPrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	orc := New(device.MustDefaultRegistry(), gen, nil, WithSystemPrompt("answer LED ON or LED OFF"))

	_, err := orc.Dispatch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "answer LED ON or LED OFF", gen.system)
}

func TestActuate(t *testing.T) {
	r := newRig(t, "", SessionPerCommand)

	o, err := r.orc.Actuate(context.Background(), "heater", true)
	require.NoError(t, err)
	assert.True(t, o.Success)
	assert.Equal(t, "5", o.Code)
	assert.Equal(t, 0, r.gen.calls)

	_, err = r.orc.Actuate(context.Background(), "toaster", true)
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestReachable(t *testing.T) {
	r := newRig(t, "", SessionPerCommand)
	assert.True(t, r.orc.Reachable(context.Background()))

	r.fw.OpenErr = serialtest.ErrUnplugged
	assert.False(t, r.orc.Reachable(context.Background()))

	assert.False(t, New(r.reg, nil, nil).Reachable(context.Background()))
}

func TestOrchestratorTestPort(t *testing.T) {
	r := newRig(t, "", SessionPerCommand)
	require.NoError(t, r.orc.TestPort(context.Background(), "/dev/ttyACM0"))
	assert.Equal(t, 1, r.fw.Opens())
	assert.Equal(t, 1, r.fw.Closes())

	r.fw.OpenErr = serialtest.ErrUnplugged
	assert.ErrorIs(t, r.orc.TestPort(context.Background(), "COM4"), serial.ErrConnection)

	// Demo mode can still test a port when a transport is supplied.
	fw := serialtest.NewFirmware(r.reg)
	tr := serial.NewTransport(serial.Options{BaudRate: 9600}, serial.WithOpener(fw.Opener()))
	require.NoError(t, New(r.reg, nil, nil, WithTransport(tr)).TestPort(context.Background(), "COM4"))
	assert.Equal(t, 1, fw.Opens())

	assert.ErrorIs(t, New(r.reg, nil, nil).TestPort(context.Background(), "COM4"), ErrNoTransport)
}

func TestParseSessionMode(t *testing.T) {
	m, err := ParseSessionMode("")
	require.NoError(t, err)
	assert.Equal(t, SessionPerCommand, m)

	m, err = ParseSessionMode("Per-Dispatch")
	require.NoError(t, err)
	assert.Equal(t, SessionPerDispatch, m)

	_, err = ParseSessionMode("pooled")
	assert.Error(t, err)
}
