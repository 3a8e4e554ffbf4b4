package cache

import (
	"slices"

	"mitramandal-backend/internal/domain"
)

// Snapshot is a point-in-time copy of every partition.
type Snapshot struct {
	Members      map[string]domain.Member      `json:"userMap"`
	Items        map[string]domain.Item        `json:"bookMap"`
	ItemCodes    map[string]string             `json:"bookIDMap"`
	Transactions map[string]domain.Transaction `json:"transactionMap"`
	Monthly      map[string][]string           `json:"userMonthlyTransactionIDs"`
}

func (c *ReadCache) Snapshot() Snapshot {
	s := Snapshot{
		Members:      make(map[string]domain.Member),
		Items:        make(map[string]domain.Item),
		ItemCodes:    make(map[string]string),
		Transactions: make(map[string]domain.Transaction),
		Monthly:      make(map[string][]string),
	}
	for k, v := range c.members.Items() {
		s.Members[k] = v.Object.(domain.Member).Clone()
	}
	for k, v := range c.items.Items() {
		s.Items[k] = v.Object.(domain.Item).Clone()
	}
	for k, v := range c.itemCodes.Items() {
		s.ItemCodes[k] = v.Object.(string)
	}
	for k, v := range c.transactions.Items() {
		s.Transactions[k] = v.Object.(domain.Transaction).Clone()
	}
	c.bucketMu.Lock()
	for k, v := range c.monthly.Items() {
		s.Monthly[k] = slices.Clone(v.Object.([]string))
	}
	c.bucketMu.Unlock()
	return s
}
