package errors

import (
	"fmt"
)

// FormatForCLI formats an error for terminal display: Display-style
// (Code stripped) when verbose is false, Debug-style (Code and chunk
// index included) when verbose is true. This mirrors the source's
// distinction between eprintln!("Error: {}", e) and error!("Error: {}", e)
// under --verbose.
func FormatForCLI(err error, verbose bool) string {
	if err == nil {
		return ""
	}

	de, ok := AsDownloadError(err)
	if !ok {
		return err.Error()
	}

	if !verbose {
		return de.Error()
	}

	msg := fmt.Sprintf("[%s] %s", de.Code, de.Error())
	if de.ChunkIndex >= 0 {
		msg = fmt.Sprintf("%s (chunk %d)", msg, de.ChunkIndex)
	}

	if de.URL != "" {
		msg = fmt.Sprintf("%s url=%s", msg, de.URL)
	}

	return msg
}
