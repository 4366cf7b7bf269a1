// internal/sink/thingspeak.go
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/health-bridge/internal/assembler"
)

// ErrRejected means the endpoint answered but refused the update.
var ErrRejected = errors.New("sink: update rejected")

type Config struct {
	URL       string
	WriteKey  string
	ChannelID string
	Timeout   time.Duration
	Enabled   bool
}

// Thingspeak uploads completed records to a ThingSpeak-style channel via a
// GET update request. Uploads are best-effort and runtime-toggleable.
type Thingspeak struct {
	cfg     Config
	client  *http.Client
	log     *zap.SugaredLogger
	enabled atomic.Bool
}

func NewThingspeak(cfg Config, log *zap.SugaredLogger) *Thingspeak {
	t := &Thingspeak{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}
	t.enabled.Store(cfg.Enabled)
	return t
}

func (t *Thingspeak) Enabled() bool      { return t.enabled.Load() }
func (t *Thingspeak) SetEnabled(on bool) { t.enabled.Store(on) }

// Upload sends one record. Disabled uploads are a silent no-op for the
// caller; rejection and transport failures come back as errors bounded by
// the configured timeout.
func (t *Thingspeak) Upload(ctx context.Context, rec assembler.Record) error {
	if !t.enabled.Load() {
		t.log.Debugf("upload disabled, skipping patient %d", rec.Patient)
		return nil
	}

	q := url.Values{}
	q.Set("api_key", t.cfg.WriteKey)
	q.Set("field1", strconv.Itoa(rec.Patient))
	q.Set("field2", strconv.Itoa(rec.BPM))
	q.Set("field3", strconv.Itoa(rec.Reading))
	q.Set("field4", rec.Timestamp.Format(assembler.TimeLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.cfg.URL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("sink: new request: %w", err)
	}

	t.log.Infof("sending to thingspeak: patient=%d bpm=%d reading=%d", rec.Patient, rec.BPM, rec.Reading)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: send: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sink: http status %d: %w", resp.StatusCode, ErrRejected)
	}

	entryID := strings.TrimSpace(string(body))
	if entryID == "0" {
		return fmt.Errorf("sink: check api key and channel permissions: %w", ErrRejected)
	}

	if t.cfg.ChannelID != "" {
		t.log.Infof("data sent to thingspeak (entry id %s, channel %s)", entryID, t.cfg.ChannelID)
	} else {
		t.log.Infof("data sent to thingspeak (entry id %s)", entryID)
	}
	return nil
}
