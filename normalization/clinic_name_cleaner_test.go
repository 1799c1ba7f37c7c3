package normalization

import "testing"

func TestSplitLocationAndDepartment(t *testing.T) {
	tests := []struct {
		input      string
		location   string
		department string
	}{
		{"Main St Clinic Onc.", "Main St Clinic", "Onc."},
		{"Oncology", "", "Oncology"},
		{"  City   Hospital   ER  ", "City Hospital", "ER"},
		{"", "", ""},
	}

	for _, tt := range tests {
		location, department := SplitLocationAndDepartment(tt.input)
		if location != tt.location || department != tt.department {
			t.Errorf("SplitLocationAndDepartment(%q) = (%q, %q), want (%q, %q)",
				tt.input, location, department, tt.location, tt.department)
		}
	}
}

func TestClinicNameCleaner_ReplaceDepartment(t *testing.T) {
	cleaner := NewClinicNameCleaner()

	tests := []struct {
		input    string
		expected string
	}{
		{"Onc.", "Oncology"},
		{"ER", "ER"}, // неизвестные отделения проходят без изменений
		{"", ""},
	}

	for _, tt := range tests {
		result := cleaner.ReplaceDepartment(tt.input)
		if result != tt.expected {
			t.Errorf("ReplaceDepartment(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestClinicNameCleaner_AddDepartmentReplacement(t *testing.T) {
	cleaner := NewClinicNameCleaner()
	cleaner.AddDepartmentReplacement("Ped.", "Pediatrics")

	if result := cleaner.ReplaceDepartment("Ped."); result != "Pediatrics" {
		t.Errorf("Expected extended table to resolve Ped., got %q", result)
	}
	if result := cleaner.ReplaceDepartment("Onc."); result != "Oncology" {
		t.Errorf("Default replacement lost after extension, got %q", result)
	}
}
