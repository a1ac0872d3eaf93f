package voice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kakilabs/kaki-backend/application/voice"
	"github.com/kakilabs/kaki-backend/cmd/config"
	"github.com/kakilabs/kaki-backend/constant"
	voicemocks "github.com/kakilabs/kaki-backend/mocks/application/voice"
	conversationmocks "github.com/kakilabs/kaki-backend/mocks/repository/conversation"
	"github.com/kakilabs/kaki-backend/model"
	cerr "github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func voiceConfig() config.VoiceConfig {
	return config.VoiceConfig{
		APIKey:           "test-key",
		BaseURL:          "https://api.example.test/v1",
		AgentID:          "agent_main",
		CompanionAgentID: "agent_companion",
		DialTimeout:      time.Second,
	}
}

func TestManager_Start_SingleDialGuard(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	dialEntered := make(chan struct{})
	releaseDial := make(chan struct{})

	conn := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(dialEntered)
			<-releaseDial
		}).
		Return(conn, nil).
		Once()

	var (
		wg          sync.WaitGroup
		firstStatus *model.VoiceSessionStatus
		firstErr    error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstStatus, firstErr = manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	}()

	<-dialEntered

	// Second tap while the first dial is still in flight: no second
	// dial attempt, the caller is told the session is busy.
	status, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.Error(t, err)
	require.True(t, cerr.Is(err, constant.ErrSessionBusy))
	require.Equal(t, constant.SessionStateConnecting, status.State)

	close(releaseDial)
	wg.Wait()
	require.NoError(t, firstErr)
	require.Equal(t, constant.SessionStateConnected, firstStatus.State)

	// Connected session also refuses a new start.
	_, err = manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.True(t, cerr.Is(err, constant.ErrSessionBusy))
}

func TestManager_Start_FallbackAfterThreeFailures(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Return(nil, errors.New("websocket: bad handshake")).
		Times(3)
	driver.
		On("FallbackURL", "agent_main").
		Return("https://elevenlabs.io/app/talk-to?agent_id=agent_main")

	for i := 1; i <= 3; i++ {
		status, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
		require.True(t, cerr.Is(err, constant.ErrVoiceUnavailable))
		require.Equal(t, constant.SessionStateIdle, status.State)
		require.Equal(t, i, status.Attempts)
		if i < constant.MaxStartAttempts {
			require.Empty(t, status.FallbackURL)
		} else {
			require.Equal(t, "https://elevenlabs.io/app/talk-to?agent_id=agent_main", status.FallbackURL)
		}
	}

	// A successful start resets the counter and drops the fallback.
	conn := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Return(conn, nil).
		Once()

	status, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, constant.SessionStateConnected, status.State)
	require.Zero(t, status.Attempts)
	require.Empty(t, status.FallbackURL)
}

func TestManager_Start_DisconnectWhileConnecting(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	// The socket opens but drops before the dial result settles; the
	// disconnect lands first and counts as a failed attempt.
	conn := voicemocks.NewSessionConn(t)
	conn.
		On("Close").
		Return(nil).
		Times(3)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			events := args.Get(3).(voice.SessionEvents)
			events.OnDisconnect("remote closed during handshake")
		}).
		Return(conn, nil).
		Times(3)
	driver.
		On("FallbackURL", "agent_main").
		Return("https://elevenlabs.io/app/talk-to?agent_id=agent_main")

	for i := 1; i <= 3; i++ {
		status, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
		require.True(t, cerr.Is(err, constant.ErrVoiceUnavailable))
		require.Equal(t, constant.SessionStateIdle, status.State)
		require.Equal(t, i, status.Attempts)
		if i < constant.MaxStartAttempts {
			require.Empty(t, status.FallbackURL)
		} else {
			require.Equal(t, "https://elevenlabs.io/app/talk-to?agent_id=agent_main", status.FallbackURL)
		}
	}
}

func TestManager_StaleSessionEventsIgnored(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	var captured []voice.SessionEvents
	conn1 := voicemocks.NewSessionConn(t)
	conn1.
		On("Close").
		Return(nil).
		Once()
	conn2 := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = append(captured, args.Get(3).(voice.SessionEvents))
		}).
		Return(conn1, nil).
		Once()
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = append(captured, args.Get(3).(voice.SessionEvents))
		}).
		Return(conn2, nil).
		Once()

	_, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.NoError(t, err)
	_, err = manager.Stop(context.Background(), 1)
	require.NoError(t, err)
	_, err = manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.NoError(t, err)
	require.Len(t, captured, 2)

	// A late disconnect from the first session must not touch the
	// second one.
	captured[0].OnDisconnect("late close from old socket")
	status := manager.Status(1)
	require.Equal(t, constant.SessionStateConnected, status.State)
	require.Zero(t, status.Attempts)

	captured[1].OnModeChange(constant.SessionModeListening)
	require.Equal(t, constant.SessionModeListening, manager.Status(1).Mode)
}

func TestManager_Stop_AlwaysIdle(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	conn := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Return(conn, nil).
		Once()
	conn.
		On("Close").
		Return(errors.New("close failed")).
		Once()

	_, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.NoError(t, err)

	status, err := manager.Stop(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, constant.SessionStateIdle, status.State)
	require.Empty(t, status.Mode)

	// Stop on an already idle session stays a no-op.
	status, err = manager.Stop(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, constant.SessionStateIdle, status.State)
}

func TestManager_Start_CompanionAgentSelection(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	conn := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_companion", mock.Anything, mock.Anything).
		Return(conn, nil).
		Once()

	status, err := manager.Start(context.Background(), 7, &model.StartSessionRequest{Agent: constant.AgentKindCompanion})
	require.NoError(t, err)
	require.Equal(t, "agent_companion", status.AgentID)
}

func TestManager_Transcript(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	conversations := conversationmocks.NewConversationRepository(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, conversations)

	conversations.
		On("GetConversation", mock.Anything, "conv_1").
		Return(&model.ConversationEntity{ID: "conv_1", UserID: 1, AgentID: "agent_main"}, nil).
		Twice()
	conversations.
		On("ListMessages", mock.Anything, "conv_1", 50).
		Return([]model.ConversationMessageEntity{
			{ConversationID: "conv_1", Source: constant.SourceUser, Content: "pay my bill"},
			{ConversationID: "conv_1", Source: constant.SourceAgent, Content: "Sure, which bill?"},
		}, nil).
		Once()
	conversations.
		On("GetConversation", mock.Anything, "conv_missing").
		Return(nil, nil).
		Once()

	messages, err := manager.Transcript(context.Background(), 1, "conv_1", 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, constant.SourceUser, messages[0].Source)

	// Another user's conversation reads as not found.
	_, err = manager.Transcript(context.Background(), 2, "conv_1", 50)
	require.True(t, cerr.Is(err, constant.ErrNotFound))

	_, err = manager.Transcript(context.Background(), 1, "conv_missing", 50)
	require.True(t, cerr.Is(err, constant.ErrNotFound))
}

func TestManager_Events_ReflectIntoStatus(t *testing.T) {
	driver := voicemocks.NewDriver(t)
	manager := voice.NewManager(voiceConfig(), driver, nil, nil)

	var events voice.SessionEvents
	conn := voicemocks.NewSessionConn(t)
	driver.
		On("Dial", mock.Anything, "agent_main", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			events = args.Get(3).(voice.SessionEvents)
		}).
		Return(conn, nil).
		Once()

	_, err := manager.Start(context.Background(), 1, &model.StartSessionRequest{})
	require.NoError(t, err)

	events.OnConnect("conv_123")
	events.OnModeChange(constant.SessionModeListening)
	events.OnMessage(constant.SourceUser, "book a ride home")

	status := manager.Status(1)
	require.Equal(t, constant.SessionStateConnected, status.State)
	require.Equal(t, constant.SessionModeListening, status.Mode)
	require.Equal(t, "conv_123", status.ConversationID)
	require.Equal(t, constant.CategoryRide, status.LastCommand)

	events.OnModeChange(constant.SessionModeSpeaking)
	require.Equal(t, constant.SessionModeSpeaking, manager.Status(1).Mode)

	events.OnDisconnect("remote closed")
	status = manager.Status(1)
	require.Equal(t, constant.SessionStateIdle, status.State)
	require.Empty(t, status.Mode)
}
