package model

import (
	"fmt"
)

var (
	_ error = KeyNotFoundError{}
	_ error = ConfigError{}
	_ error = TransportError{}
	_ error = DecodeError{}
)

type KeyNotFoundError struct {
	Key string
}

func (err KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %s not found", err.Key)
}

type ConfigError struct {
	Name   string
	Reason string
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("config value %s: %s", err.Name, err.Reason)
}

// TransportError covers network-level failures and
// non-ok remote responses that do not map to a missing key.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (err TransportError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("transport failure on %s: %s", err.Op, err.Err.Error())
	}
	return fmt.Sprintf("transport failure on %s: remote responded with status %d", err.Op, err.Status)
}

func (err TransportError) Unwrap() error {
	return err.Err
}

type DecodeError struct {
	Key string
	Err error
}

func (err DecodeError) Error() string {
	return fmt.Sprintf("decoding value of %s: %s", err.Key, err.Err.Error())
}

func (err DecodeError) Unwrap() error {
	return err.Err
}
