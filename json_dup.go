package zod

import (
	"io"

	eng "github.com/JorikSchellekens/zod/internal/engine"
	"github.com/JorikSchellekens/zod/source/gojson"
)

// DetectJSONDuplicateKeysBytes reports duplicate object keys in JSON data
// without validating it against a schema. A severity of Ignore or maxIssues of
// 0 disables detection; maxIssues < 0 means unlimited.
func DetectJSONDuplicateKeysBytes(data []byte, sev Severity, maxIssues int) (Issues, error) {
	if sev == Ignore {
		return nil, nil
	}
	si, err := eng.CollectDuplicates(gojson.NewBytes(data), maxIssues)
	return fromEngineIssues(si), err
}

// DetectJSONDuplicateKeysReader is like DetectJSONDuplicateKeysBytes but
// consumes r fully.
func DetectJSONDuplicateKeysReader(r io.Reader, sev Severity, maxIssues int) (Issues, error) {
	if sev == Ignore {
		return nil, nil
	}
	si, err := eng.CollectDuplicates(gojson.NewReader(r), maxIssues)
	return fromEngineIssues(si), err
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message, Offset: -1})
	}
	return iss
}
