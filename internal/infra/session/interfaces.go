package session

type ManagerInterface interface {
	Issue(userID uint64) (string, error)
	UserID(token string) (uint64, error)
}

var _ ManagerInterface = (*Manager)(nil)
