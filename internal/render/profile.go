package render

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile carries the letterhead and distribution text stamped onto every
// document. Offices override the defaults with a small YAML file so the tool
// is not hard-wired to one division.
type Profile struct {
	OfficeName string   `yaml:"office_name"`
	Division   string   `yaml:"division"`
	Authority  string   `yaml:"authority"`
	OnBehalfOf string   `yaml:"on_behalf_of"`
	Signatory  string   `yaml:"signatory"`
	CopyTo     []string `yaml:"copy_to"`
}

// DefaultProfile is the letterhead used when no profile file is configured.
func DefaultProfile() Profile {
	return Profile{
		OfficeName: "Office of the Executive Engineer",
		Division:   "PWD Electric Division Udaipur",
		Authority:  "Executive Engineer",
		OnBehalfOf: "On behalf of the Governor of State of Rajasthan",
		Signatory:  "Executive Engineer, PWD Electric Division Udaipur",
		CopyTo: []string{
			"The Accountant General, Rajasthan, Jaipur",
			"The Superintending Engineer, PWD Electric Circle, Udaipur",
			"The Assistant Engineer concerned for information and necessary action",
			"Office file",
		},
	}
}

// LoadProfile reads a letterhead profile from a YAML file. Fields left empty
// in the file keep their default values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, eris.Wrapf(err, "render: read profile %s", path)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, eris.Wrapf(err, "render: decode profile %s", path)
	}
	return p, nil
}
