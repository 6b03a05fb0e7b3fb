package tui

import "github.com/Veraticus/haul/internal/service"

// dataChangedMsg carries a fresh dataset after a collection changed.
type dataChangedMsg struct {
	data service.Dataset
}
