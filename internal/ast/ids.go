package ast

type (
	ItemID   uint32
	StmtID   uint32
	MethodID uint32
	VarID    uint32
	// подсущности
	PayloadID uint32
)

const (
	NoItemID    ItemID    = 0
	NoStmtID    StmtID    = 0
	NoMethodID  MethodID  = 0
	NoVarID     VarID     = 0
	NoPayloadID PayloadID = 0
)

func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id MethodID) IsValid() bool  { return id != NoMethodID }
func (id VarID) IsValid() bool     { return id != NoVarID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
