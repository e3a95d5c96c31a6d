package content

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

type unicodeEncoding int

const (
	encodingUnknown unicodeEncoding = iota
	encodingUTF8BOM
	encodingUTF16LE
	encodingUTF16BE
)

func detectUnicodeEncoding(sample []byte) unicodeEncoding {
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return encodingUTF8BOM
	}
	if len(sample) >= 2 {
		switch {
		case sample[0] == 0xFF && sample[1] == 0xFE:
			return encodingUTF16LE
		case sample[0] == 0xFE && sample[1] == 0xFF:
			return encodingUTF16BE
		}
	}
	return encodingUnknown
}

// DecodeText turns a fetched payload into a display string. A byte order mark
// wins over the declared charset; without either the body is read as UTF-8
// and invalid sequences become U+FFFD. Line endings are left untouched.
func DecodeText(url string, payload *Payload) (string, error) {
	if payload == nil || len(payload.Body) == 0 {
		return "", nil
	}
	body := payload.Body

	switch detectUnicodeEncoding(body) {
	case encodingUTF8BOM:
		return decodeWith(url, unicode.UTF8, body[3:])
	case encodingUTF16LE:
		return decodeWith(url, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), body)
	case encodingUTF16BE:
		return decodeWith(url, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), body)
	}

	enc, err := declaredEncoding(payload.ContentType)
	if err != nil {
		return "", DecodeError(url, err)
	}
	return decodeWith(url, enc, body)
}

func decodeWith(url string, enc encoding.Encoding, body []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", DecodeError(url, err)
	}
	return string(out), nil
}

// declaredEncoding resolves the charset parameter of a Content-Type header.
func declaredEncoding(contentType string) (encoding.Encoding, error) {
	if strings.TrimSpace(contentType) == "" {
		return unicode.UTF8, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Malformed headers are common on static hosts; assume UTF-8.
		return unicode.UTF8, nil
	}
	charset := strings.TrimSpace(params["charset"])
	if charset == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc, nil
}
