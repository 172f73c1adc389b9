package service

// Questions asked before any branch is deleted
const (
	DeleteBranchesQuestion = "\nDelete existing branches? (Y) or (N): "
	ConfirmDeleteQuestion  = "\nAre you sure? (Y) or (N): "
)
