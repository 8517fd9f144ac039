package signaturbox

import (
	"fmt"
	"strconv"
	"strings"
)

// lastSegment returns what follows the final "/" of a Location value.
func lastSegment(location string) string {
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

// idFromLocation parses the trailing Location segment as an integer id.
func idFromLocation(location string) (int, error) {
	seg := lastSegment(location)
	id, err := strconv.Atoi(seg)
	if err != nil {
		return InvalidID, fmt.Errorf("%w: %q: %v", ErrMalformedLocation, location, err)
	}
	return id, nil
}

// ticketFromLocation returns the trailing Location segment as a batch ticket.
func ticketFromLocation(location string) (string, error) {
	seg := lastSegment(location)
	if seg == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedLocation, location)
	}
	return seg, nil
}

// filenameFromDisposition takes the text after "filename=" up to the next ";".
// Quotes and RFC 5987 encodings are left untouched.
func filenameFromDisposition(header string) (string, error) {
	const marker = "filename="
	i := strings.Index(header, marker)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformedDisposition, header)
	}
	name, _, _ := strings.Cut(header[i+len(marker):], ";")
	return name, nil
}
