package otp

// SetOpenMailbox swaps the mailbox opener used by Open and returns a restore func.
func SetOpenMailbox(f func(path string) (Mailbox, error)) func() {
	previous := openMailbox
	openMailbox = f
	return func() { openMailbox = previous }
}
