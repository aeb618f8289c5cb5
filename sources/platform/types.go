package platform

type ChatID int64

func (c ChatID) Int64() int64 {
	return int64(c)
}
