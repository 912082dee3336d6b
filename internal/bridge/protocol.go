// Package bridge speaks the host/render protocol: JSON messages over a
// bidirectional channel between the grid UI and the document host. A
// session processes inbound messages strictly in arrival order and
// sends outbound updates fire-and-forget, so a slow reader can never
// stall editing.
package bridge

import (
	"github.com/maraichr/sqlgrid/internal/editor"
	"github.com/maraichr/sqlgrid/pkg/apierr"
	"github.com/maraichr/sqlgrid/pkg/models"
)

// Inbound message types (render → host).
const (
	MsgLoad    = "load"
	MsgEdit    = "edit"
	MsgSave    = "save"
	MsgRefresh = "refresh"
)

// Outbound message types (host → render).
const (
	MsgUpdateData = "updateData"
	MsgCurrentSQL = "currentSQL"
	MsgError      = "error"
)

// Inbound is one render-to-host message. For edits the operation
// fields are flattened into the message.
type Inbound struct {
	Type  string `json:"type"`
	Op    string `json:"op,omitempty"`
	Stmt  int    `json:"stmt,omitempty"`
	Row   int    `json:"row,omitempty"`
	Col   int    `json:"col,omitempty"`
	Value string `json:"value,omitempty"`
	Name  string `json:"name,omitempty"`
	Where string `json:"where,omitempty"`
}

// Operation extracts the edit operation carried by an edit message.
func (m Inbound) Operation() editor.Operation {
	return editor.Operation{
		Op:    m.Op,
		Stmt:  m.Stmt,
		Row:   m.Row,
		Col:   m.Col,
		Value: m.Value,
		Name:  m.Name,
		Where: m.Where,
	}
}

// Outbound is one host-to-render message.
type Outbound struct {
	Type     string           `json:"type"`
	FileName string           `json:"fileName,omitempty"`
	Data     *models.Document `json:"data,omitempty"`
	SQL      string           `json:"sql,omitempty"`
	Version  int64            `json:"version,omitempty"`
	Hash     string           `json:"hash,omitempty"`
	Code     apierr.Code      `json:"code,omitempty"`
	Message  string           `json:"message,omitempty"`
}

func updateData(fileName string, doc models.Document) Outbound {
	return Outbound{Type: MsgUpdateData, FileName: fileName, Data: &doc}
}

func currentSQL(sql, hash string, version int64) Outbound {
	return Outbound{Type: MsgCurrentSQL, SQL: sql, Hash: hash, Version: version}
}

func errorMessage(err error) Outbound {
	e := apierr.From(err)
	return Outbound{Type: MsgError, Code: e.Code(), Message: e.Message()}
}
