package util

import "fmt"

// Avatar returns a deterministic placeholder avatar for the seed, so the same
// account always renders the same image.
func Avatar(seed string) string {
	return fmt.Sprintf("https://avatar.vercel.sh/%v", seed)
}
