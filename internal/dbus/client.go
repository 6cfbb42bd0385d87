package dbus

import (
	"encoding/json"
	"fmt"
	"time"

	godbus "github.com/godbus/dbus/v5"
)

// Client calls a running Service.
type Client struct {
	conn *godbus.Conn
	obj  godbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := godbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(BusName, ObjPath)}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) GetCurrentBattery() (*CurrentBattery, error) {
	var jsonStr string
	if err := c.obj.Call(IfaceName+".GetCurrentBattery", 0).Store(&jsonStr); err != nil {
		return nil, err
	}
	return decode[CurrentBattery](jsonStr)
}

func (c *Client) GetHistory(from, to time.Time) (*History, error) {
	var jsonStr string
	if err := c.obj.Call(IfaceName+".GetHistory", 0, from.Unix(), to.Unix()).Store(&jsonStr); err != nil {
		return nil, err
	}
	return decode[History](jsonStr)
}

func decode[T any](jsonStr string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &v, nil
}
