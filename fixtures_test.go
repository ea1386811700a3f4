package hoshi_test

import (
	"time"

	"github.com/reoring/hoshi"
)

type profile struct {
	UserID   int64
	Nickname string
	Active   bool
	Score    float64
	Age      *int
	Homepage string `hoshi:"name=url"`
	Comment  string `hoshi:"noequal"`
	Session  string `hoshi:"nojson"`
	Internal string `hoshi:"-"`
	Legacy   string `json:"legacy_name,omitempty"`

	hidden int
}

func (p *profile) SetDefaults() {
	p.Nickname = "x"
	p.Score = 1.5
}

type address struct {
	City string
	Zip  string
}

func (a *address) SetDefaults() { a.City = "Tokyo" }

type order struct {
	ID       uint16
	Level    int8
	Address  address
	Billing  *address
	Items    []lineItem
	Counts   map[string]int
	Extra    hoshi.Value
	Payload  any
	Created  time.Time
	Fixed    [2]int
	Children []*order
}

type lineItem struct {
	SKU string
	Qty int
}

func (l *lineItem) SetDefaults() { l.Qty = 1 }

type account struct {
	hoshi.Entity
	ID    int64
	Name  string
	Notes string `hoshi:"noequal"`

	inits int
}

func (a *account) InitEntity() { a.inits++ }

type marker struct {
	A string `hoshi:"noequal"`
	B int    `hoshi:"noequal"`
}

type emptyRecord struct{}

type ratio struct {
	Value float64
}

func accountInits(a account) int { return a.inits }
