package service

type AfterInput struct {
	Block string `json:"block" binding:"required"`
	Tx    string `json:"tx" binding:"required"`
}

type HistoryInput struct {
	Addresses  []string    `json:"addresses" binding:"required"`
	UntilBlock string      `json:"untilBlock" binding:"required"`
	After      *AfterInput `json:"after"`
	Limit      int         `json:"limit" binding:"omitempty,min=1"`
}

type BlockOutput struct {
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
	Epoch  int64  `json:"epoch"`
	Slot   int64  `json:"slot"`
}

type TransactionOutput struct {
	Hash    string      `json:"hash"`
	TxIndex int32       `json:"txIndex"`
	IsValid bool        `json:"isValid"`
	Payload string      `json:"payload"`
	Block   BlockOutput `json:"block"`
}

type HistoryOutput struct {
	Transactions []TransactionOutput `json:"transactions"`
	// Next is the anchor to send as "after" for the following page. It is
	// nil when the page was not full.
	Next *AfterInput `json:"next,omitempty"`
}
