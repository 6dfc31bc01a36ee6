package env

import (
	"github.com/denisbrodbeck/machineid"
)

const appID = "serbridge"

// MachineID retrieves an ID identifying this machine for serbridge.
// The raw machine id is hashed with the app id so it isn't exposed.
func MachineID() (string, error) {
	return machineid.ProtectedID(appID)
}

// ShortMachineID is the first 12 chars of MachineID, "unknown" on error.
func ShortMachineID() string {
	id, err := MachineID()
	if err != nil || id == "" {
		return "unknown"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
