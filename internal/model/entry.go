package model

import (
	"time"
)

type Entry struct {
	Key      string
	Value    string
	Modified time.Time
}
