package util

import (
	"os/exec"
)

// browserCommands 按平台返回打开 URL 的候选命令，依次尝试
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 在 Windows 7 上比 cmd /c start 稳定
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		return [][]string{
			{"xdg-open", url},
			{"sensible-browser", url},
			{"google-chrome", url},
			{"firefox", url},
		}
	}
}

// OpenBrowser 打开默认浏览器，失败时尝试备选命令
func OpenBrowser(goos, url string) error {
	var err error
	for _, args := range browserCommands(goos, url) {
		if err = exec.Command(args[0], args[1:]...).Start(); err == nil {
			return nil
		}
	}
	return err
}
