package logger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	tsLayout = "2006-01-02T15:04:05.000Z07:00"
)

var errNoWriter = errors.New("logger: writer not initialized")

type handlerConfig struct {
	level    slog.Leveler
	writer   *asyncWriter
	format   logFormat
	keyOrder []string
}

// structuredHandler renders records as flat JSON objects or key=value lines
// with a stable key order.
type structuredHandler struct {
	cfg    handlerConfig
	rank   map[string]int
	attrs  []slog.Attr
	prefix string
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if len(cfg.keyOrder) == 0 {
		cfg.keyOrder = defaultKeyOrder
	}
	rank := make(map[string]int, len(cfg.keyOrder))
	for i, k := range cfg.keyOrder {
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}
	return &structuredHandler{cfg: cfg, rank: rank}
}

func (h *structuredHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	return lvl >= h.cfg.level.Level()
}

func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return errNoWriter
	}

	f := make(fields, 16)
	ts := r.Time.UTC()
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	f["ts"] = ts.Truncate(time.Millisecond).Format(tsLayout)
	f["level"] = levelName(r.Level)
	if h.cfg.format == formatJSON {
		f["ts_unix_nano"] = ts.UnixNano()
	}

	for _, a := range h.attrs {
		f.add("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		f.add(h.prefix, a)
		return true
	})
	f.fillFromContext(ctx)

	if rid := f.str("rid"); rid != "" {
		if short := CompactRID(rid); short != rid {
			if h.cfg.format == formatJSON {
				f.setDefault("rid_full", rid)
			}
			f["rid"] = short
		}
	}
	if f.str("event") == "" {
		f["event"] = "unknown"
		if r.Message != "" {
			f["event"] = r.Message
		}
	}
	if f.str("component") == "" {
		f["component"] = "app"
	}
	f.normalizeEnums()
	f.dropEmpty()

	var line []byte
	if h.cfg.format == formatJSON {
		var err error
		if line, err = f.json(h.sortedKeys(f)); err != nil {
			return err
		}
	} else {
		line = f.kv(h.sortedKeys(f))
	}
	return h.cfg.writer.Write(append(line, '\n'))
}

func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *structuredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.prefix == "" {
		clone.prefix = name
	} else {
		clone.prefix += "." + name
	}
	return &clone
}

// sortedKeys lists configured keys first, the remainder alphabetically.
func (h *structuredHandler) sortedKeys(f fields) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ra, okA := h.rank[a]
		rb, okB := h.rank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(a, b)
	})
	return keys
}

func levelName(l slog.Level) string {
	switch {
	case l >= LevelFatalValue:
		return LevelFatal
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	}
	return LevelDebug
}

type fields map[string]any

func (f fields) add(prefix string, a slog.Attr) {
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, child := range v.Group() {
			f.add(key, child)
		}
		return
	}
	if key == "" {
		return
	}
	if k, val, ok := flatValue(key, v); ok {
		f[k] = val
	}
}

func (f fields) setDefault(key string, v any) {
	if _, ok := f[key]; !ok {
		f[key] = v
	}
}

func (f fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (f fields) fillFromContext(ctx context.Context) {
	m := metaFrom(ctx)
	if m.rid != "" {
		f.setDefault("rid", m.rid)
	}
	if m.updateID != 0 {
		f.setDefault("update_id", m.updateID)
	}
	if m.userID != 0 {
		f.setDefault("user_id", m.userID)
	}
	if m.chatID != 0 {
		f.setDefault("chat_id", m.chatID)
	}
	if m.handler != "" {
		f.setDefault("handler", m.handler)
	}
}

func (f fields) normalizeEnums() {
	if s := f.str("status"); s != "" {
		f["status"] = normalizeStatus(s)
	}
	if o := f.str("outcome"); o != "" {
		if v, ok := normalizeOutcome(o); ok {
			f["outcome"] = v
		} else {
			delete(f, "outcome")
		}
	}
}

func (f fields) dropEmpty() {
	for k, v := range f {
		if v == nil {
			delete(f, k)
		} else if s, ok := v.(string); ok && s == "" {
			delete(f, k)
		}
	}
}

func (f fields) json(keys []string) ([]byte, error) {
	buf := make([]byte, 0, 256)
	buf = append(buf, '{')
	for i, k := range keys {
		data, err := json.Marshal(f[k])
		if err != nil {
			return nil, fmt.Errorf("logger: encode %s: %w", k, err)
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, k)
		buf = append(buf, ':')
		buf = append(buf, data...)
	}
	return append(buf, '}'), nil
}

func (f fields) kv(keys []string) []byte {
	buf := make([]byte, 0, 256)
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		s := fmt.Sprint(f[k])
		if strings.IndexFunc(s, needsQuote) >= 0 {
			buf = strconv.AppendQuote(buf, s)
		} else {
			buf = append(buf, s...)
		}
	}
	return buf
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}

// flatValue converts a slog value into a JSON friendly scalar. Durations
// are reported in milliseconds under a key ending in _ms.
func flatValue(key string, v slog.Value) (string, any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return key, strings.TrimSpace(v.String()), true
	case slog.KindBool:
		return key, v.Bool(), true
	case slog.KindInt64:
		return key, v.Int64(), true
	case slog.KindUint64:
		if u := v.Uint64(); u <= math.MaxInt64 {
			return key, int64(u), true
		}
		return key, v.Uint64(), true
	case slog.KindFloat64:
		return key, v.Float64(), true
	case slog.KindDuration:
		return msKey(key), RoundMS(v.Duration()).Milliseconds(), true
	case slog.KindTime:
		return key, v.Time().UTC().Format(time.RFC3339Nano), true
	}
	switch x := v.Any().(type) {
	case nil:
		return key, nil, false
	case error:
		return key, x.Error(), true
	case time.Duration:
		return msKey(key), RoundMS(x).Milliseconds(), true
	case fmt.Stringer:
		return key, x.String(), true
	default:
		return key, fmt.Sprint(x), true
	}
}

func msKey(key string) string {
	switch {
	case key == "duration":
		return "duration_ms"
	case strings.HasSuffix(key, "_ms"):
		return key
	}
	return key + "_ms"
}
