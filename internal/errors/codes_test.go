package errors

import (
	"testing"
)

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"PAR001", PAR001, "parser", "syntax"},
		{"PAR003", PAR003, "parser", "syntax"},
		{"KND001", KND001, "kindcheck", "kind"},
		{"TC001", TC001, "typecheck", "type"},
		{"TC009", TC009, "typecheck", "class"},
		{"ELB005", ELB005, "elaborate", "dictionary"},
		{"RT001", RT001, "runtime", "arithmetic"},
		{"EVA001", EVA001, "eval", "scope"},
		{"EVA004", EVA004, "eval", "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Errorf("Error code %s not found in registry", tt.code)
				return
			}
			if info.Code != tt.code {
				t.Errorf("Code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("Phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("Category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestErrorTypeCheckers(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		isParser  bool
		isType    bool
		isRuntime bool
	}{
		{"Parser error", PAR001, true, false, false},
		{"Kind error", KND001, false, true, false},
		{"Type error", TC001, false, true, false},
		{"Runtime error", RT001, false, false, true},
		{"Eval error", EVA001, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsParserError(tt.code); got != tt.isParser {
				t.Errorf("IsParserError(%s) = %v, want %v", tt.code, got, tt.isParser)
			}
			if got := IsTypeError(tt.code); got != tt.isType {
				t.Errorf("IsTypeError(%s) = %v, want %v", tt.code, got, tt.isType)
			}
			if got := IsRuntimeError(tt.code); got != tt.isRuntime {
				t.Errorf("IsRuntimeError(%s) = %v, want %v", tt.code, got, tt.isRuntime)
			}
		})
	}
}

func TestAllErrorCodesInRegistry(t *testing.T) {
	allCodes := []string{
		PAR001, PAR002, PAR003, PAR004, PAR005, PAR006,
		KND001, KND002,
		TC001, TC002, TC003, TC004, TC005, TC006, TC007,
		TC008, TC009, TC010, TC011, TC012,
		ELB001, ELB002, ELB003, ELB004, ELB005, ELB006,
		LNK001, LNK002, LNK003, LNK004,
		EVA001, EVA002, EVA003, EVA004,
		RT001, RT002, RT003, RT004, RT005, RT006, RT007,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			if _, exists := GetErrorInfo(code); !exists {
				t.Errorf("Error code %s is defined but not in registry", code)
			}
		})
	}

	if len(ErrorRegistry) < len(allCodes) {
		t.Errorf("Registry has %d codes, expected at least %d", len(ErrorRegistry), len(allCodes))
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	validPhases := map[string]bool{
		"parser": true, "kindcheck": true, "typecheck": true,
		"elaborate": true, "eval": true, "runtime": true,
	}
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("Code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if len(code) < 4 || len(code) > 6 {
			t.Errorf("Invalid code format: %s", code)
		}
		if !validPhases[info.Phase] {
			t.Errorf("Invalid phase for %s: %s", code, info.Phase)
		}
		if info.Description == "" {
			t.Errorf("Empty description for %s", code)
		}
	}
}
