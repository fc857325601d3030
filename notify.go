package dirsync

type Notifier interface {
	NotifySyncResults(*Result) error
}
