package repository

type Block struct {
	ID     int64
	Hash   string
	Height int64
	Epoch  int64
	Slot   int64
}

type Transaction struct {
	ID      int64
	Hash    string
	BlockID int64
	TxIndex int32
	IsValid bool
	Payload []byte
}
