package dbus

import (
	"encoding/json"
	"fmt"
	"log/slog"

	godbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/logging"
	"github.com/cptspacemanspiff/abat/internal/storage"
)

const (
	BusName   = "io.github.cptspacemanspiff.Abat"
	ObjPath   = "/io/github/cptspacemanspiff/Abat"
	IfaceName = "io.github.cptspacemanspiff.Abat"
)

const introspectXML = `
<node>
  <interface name="` + IfaceName + `">
    <method name="GetCurrentBattery">
      <arg direction="out" type="s" name="json"/>
    </method>
    <method name="GetHistory">
      <arg direction="in" type="x" name="from_epoch"/>
      <arg direction="in" type="x" name="to_epoch"/>
      <arg direction="out" type="s" name="json"/>
    </method>
  </interface>
` + introspect.IntrospectDataString + `
</node>`

// Store is the read side of storage.DB.
type Store interface {
	LatestBatterySample() (*collector.BatterySample, error)
	BatterySamplesInRange(from, to int64) ([]collector.BatterySample, error)
}

// CurrentBattery is the JSON payload of GetCurrentBattery.
type CurrentBattery struct {
	Battery *collector.BatterySample `json:"battery"`
}

// History is the JSON payload of GetHistory.
type History struct {
	Battery []collector.BatterySample `json:"battery"`
}

// Service exposes stored battery samples over D-Bus.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a new D-Bus service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{store: store, logger: logger.With("topic", logging.TopicDBus)}
}

// Export registers the service on the session bus.
func (s *Service) Export() (*godbus.Conn, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.Export(s, ObjPath, IfaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export %s: %w", IfaceName, err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), ObjPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(BusName, godbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request name: %w", err)
	}
	if reply != godbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("name %s already taken", BusName)
	}

	return conn, nil
}

// GetCurrentBattery returns the latest battery sample as JSON.
func (s *Service) GetCurrentBattery() (string, *godbus.Error) {
	bat, err := s.store.LatestBatterySample()
	if err != nil {
		s.logger.Error("latest battery sample", "err", err)
		return "", godbus.MakeFailedError(err)
	}
	return marshal(CurrentBattery{Battery: bat})
}

// GetHistory returns battery samples in a time range as JSON.
func (s *Service) GetHistory(fromEpoch, toEpoch int64) (string, *godbus.Error) {
	if err := storage.ValidateRange(fromEpoch, toEpoch); err != nil {
		return "", godbus.MakeFailedError(err)
	}
	bat, err := s.store.BatterySamplesInRange(fromEpoch, toEpoch)
	if err != nil {
		s.logger.Error("battery history", "from", fromEpoch, "to", toEpoch, "err", err)
		return "", godbus.MakeFailedError(err)
	}
	s.logger.Debug("history served", "from", fromEpoch, "to", toEpoch, "samples", len(bat))
	if bat == nil {
		bat = []collector.BatterySample{}
	}
	return marshal(History{Battery: bat})
}

func marshal(v any) (string, *godbus.Error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", godbus.MakeFailedError(err)
	}
	return string(data), nil
}
