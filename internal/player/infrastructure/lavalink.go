package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hqtran/rhythmbot/internal/player/domain"
	"github.com/hqtran/rhythmbot/internal/player/ports"
)

// voiceHandshake buffers the two Discord voice events per guild so they reach
// Lavalink together and in order, even when the gateway delivers them out of
// order. Forwarding with only one half present yields a partial voice state
// that Lavalink rejects.
type voiceHandshake struct {
	mu sync.Mutex

	hasState  bool
	channelID *snowflake.ID
	sessionID string

	hasServer bool
	token     string
	endpoint  string
}

// setState stores voice state data; reports whether both halves are present.
func (h *voiceHandshake) setState(channelID *snowflake.ID, sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hasState = true
	h.channelID = channelID
	h.sessionID = sessionID
	return h.hasState && h.hasServer
}

// setServer stores voice server data; reports whether both halves are present.
func (h *voiceHandshake) setServer(token, endpoint string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hasServer = true
	h.token = token
	h.endpoint = endpoint
	return h.hasState && h.hasServer
}

// take returns the buffered data and resets the handshake.
func (h *voiceHandshake) take() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	channelID, sessionID, token, endpoint = h.channelID, h.sessionID, h.token, h.endpoint
	*h = voiceHandshake{}
	return
}

// LavalinkTransport implements the audio transport and track resolver ports
// over a Lavalink node, and feeds player events back into the session store.
type LavalinkTransport struct {
	link    disgolink.Client
	session *discordgo.Session
	repo    domain.SessionRepository
	botID   snowflake.ID

	handshakeMu sync.Mutex
	handshakes  map[snowflake.ID]*voiceHandshake
}

// LavalinkConfig contains Lavalink node connection settings.
type LavalinkConfig struct {
	Address  string
	Password string
}

// NewLavalinkTransport creates a LavalinkTransport and connects its node.
func NewLavalinkTransport(
	session *discordgo.Session,
	repo domain.SessionRepository,
	config LavalinkConfig,
) (*LavalinkTransport, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	t := &LavalinkTransport{
		session:    session,
		repo:       repo,
		botID:      botID,
		handshakes: make(map[snowflake.ID]*voiceHandshake),
	}

	link := disgolink.New(botID,
		disgolink.WithListenerFunc(t.onTrackStart),
		disgolink.WithListenerFunc(t.onTrackEnd),
		disgolink.WithListenerFunc(t.onTrackException),
		disgolink.WithListenerFunc(t.onTrackStuck),
	)
	t.link = link

	node, err := link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)
	return t, nil
}

// Link returns the underlying DisGoLink client.
func (t *LavalinkTransport) Link() disgolink.Client {
	return t.link
}

// Available reports whether any Lavalink node is usable.
func (t *LavalinkTransport) Available() bool {
	return t.link.BestNode() != nil
}

// Join issues the voice connection request. Connection completion arrives
// asynchronously through the voice events and is reflected on the session.
func (t *LavalinkTransport) Join(ctx context.Context, guildID, channelID snowflake.ID) error {
	err := t.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}
	return nil
}

// Leave destroys the guild's player and disconnects from voice.
func (t *LavalinkTransport) Leave(ctx context.Context, guildID snowflake.ID) error {
	if player := t.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	if err := t.session.ChannelVoiceJoinManual(guildID.String(), "", false, false); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts playback of a track.
func (t *LavalinkTransport) Play(
	ctx context.Context,
	guildID snowflake.ID,
	track *domain.Track,
) error {
	player := t.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithEncodedTrack(track.Encoded)); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}
	return nil
}

// Stop stops the current playback.
func (t *LavalinkTransport) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := t.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Pause pauses the current playback.
func (t *LavalinkTransport) Pause(ctx context.Context, guildID snowflake.ID) error {
	player := t.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}

// Resume resumes paused playback.
func (t *LavalinkTransport) Resume(ctx context.Context, guildID snowflake.ID) error {
	player := t.link.Player(guildID)
	if err := player.Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	return nil
}

// LoadTracks resolves a query through the best available node.
func (t *LavalinkTransport) LoadTracks(
	ctx context.Context,
	query string,
) (*ports.LoadResult, error) {
	node := t.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	return convertLoadResult(result), nil
}

func convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.LoadResult{
			Type:   ports.LoadTypeTrack,
			Tracks: []*ports.TrackInfo{convertTrack(data)},
		}

	case lavalink.Playlist:
		tracks := make([]*ports.TrackInfo, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{
			Type:   ports.LoadTypePlaylist,
			Tracks: tracks,
		}

	case lavalink.Search:
		tracks := make([]*ports.TrackInfo, len(data))
		for i, track := range data {
			tracks[i] = convertTrack(track)
		}
		return &ports.LoadResult{
			Type:   ports.LoadTypeSearch,
			Tracks: tracks,
		}

	case lavalink.Empty:
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}

	case lavalink.Exception:
		return &ports.LoadResult{Type: ports.LoadTypeError}

	default:
		return &ports.LoadResult{Type: ports.LoadTypeEmpty}
	}
}

func convertTrack(track lavalink.Track) *ports.TrackInfo {
	info := track.Info
	uri := ""
	if info.URI != nil {
		uri = *info.URI
	}

	return &ports.TrackInfo{
		Encoded:    track.Encoded,
		Title:      info.Title,
		Author:     info.Author,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		URI:        uri,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}

// OnVoiceServerUpdate must be called from the Discord event handler.
func (t *LavalinkTransport) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	handshake := t.handshake(guildID)
	if handshake.setServer(event.Token, event.Endpoint) {
		t.completeHandshake(guildID, handshake)
	}
}

// OnVoiceStateUpdate must be called from the Discord event handler. Only the
// bot's own voice state matters here.
func (t *LavalinkTransport) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != t.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	// An empty channel means the bot was evicted or disconnected: tear the
	// session down rather than wait for both handshake halves.
	if channelID == nil {
		t.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		t.dropHandshake(guildID)
		if session := t.repo.Get(guildID); session != nil {
			slog.Info("voice endpoint evicted session", "guild", guildID)
			session.Destroy()
			t.repo.Delete(guildID)
		}
		return
	}

	handshake := t.handshake(guildID)
	if handshake.setState(channelID, event.SessionID) {
		t.completeHandshake(guildID, handshake)
	}
}

func (t *LavalinkTransport) handshake(guildID snowflake.ID) *voiceHandshake {
	t.handshakeMu.Lock()
	defer t.handshakeMu.Unlock()

	h, ok := t.handshakes[guildID]
	if !ok {
		h = &voiceHandshake{}
		t.handshakes[guildID] = h
	}
	return h
}

func (t *LavalinkTransport) dropHandshake(guildID snowflake.ID) {
	t.handshakeMu.Lock()
	defer t.handshakeMu.Unlock()
	delete(t.handshakes, guildID)
}

// completeHandshake forwards both buffered voice events to Lavalink and
// marks the session connected.
func (t *LavalinkTransport) completeHandshake(guildID snowflake.ID, h *voiceHandshake) {
	channelID, sessionID, token, endpoint := h.take()

	slog.Debug("forwarding voice handshake to Lavalink",
		"guild", guildID, "channel", channelID)

	ctx := context.Background()
	t.link.OnVoiceStateUpdate(ctx, guildID, channelID, sessionID)
	t.link.OnVoiceServerUpdate(ctx, guildID, token, endpoint)

	if session := t.repo.Get(guildID); session != nil {
		session.SetConnState(domain.ConnConnected)
	}
}

func (t *LavalinkTransport) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)

	if session := t.repo.Get(player.GuildID()); session != nil {
		session.SetPlayState(domain.PlayPlaying)
	}
}

// onTrackEnd advances the session queue when a track finishes on its own.
// Stopped and replaced tracks were ended deliberately by a command; those
// paths manage the queue themselves.
func (t *LavalinkTransport) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	session := t.repo.Get(player.GuildID())
	if session == nil {
		return
	}

	switch event.Reason {
	case lavalink.TrackEndReasonFinished, lavalink.TrackEndReasonLoadFailed:
		next := session.StartNext()
		if next == nil {
			session.SetPlayState(domain.PlayIdle)
			return
		}
		if err := t.Play(context.Background(), player.GuildID(), next); err != nil {
			slog.Error("failed to play next track",
				"guild", player.GuildID(), "track", next.Title, "error", err)
			session.SetPlayState(domain.PlayIdle)
		}
	case lavalink.TrackEndReasonReplaced:
		// a new track is already starting
	default:
		session.SetPlayState(domain.PlayIdle)
	}
}

func (t *LavalinkTransport) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
}

func (t *LavalinkTransport) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

// Ensure LavalinkTransport implements the port interfaces.
var (
	_ ports.AudioTransport = (*LavalinkTransport)(nil)
	_ ports.TrackResolver  = (*LavalinkTransport)(nil)
)
