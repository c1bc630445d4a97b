package sandbox

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/impt/internal/fleet"
)

// Fixture is the YAML document a sandbox is seeded from.
//
//	accounts:
//	  - username: alice
//	    email: alice@example.com
//	    devices:
//	      - {name: kitchen, mac_address: "0c:2a:69:00:00:01"}
//	    products:
//	      - name: Thermostats
//	        device_groups:
//	          - name: dev
//	            devices: [kitchen]
//	            deployments:
//	              - {sha: 4b825dc, description: first build}
type Fixture struct {
	Accounts []FixtureAccount `yaml:"accounts"`
}

// FixtureAccount is one account with the devices and products it owns.
type FixtureAccount struct {
	Username string           `yaml:"username"`
	Email    string           `yaml:"email"`
	Devices  []FixtureDevice  `yaml:"devices"`
	Products []FixtureProduct `yaml:"products"`
}

// FixtureDevice is a device registered to the account.
type FixtureDevice struct {
	Name       string `yaml:"name"`
	MACAddress string `yaml:"mac_address"`
}

// FixtureProduct is a product and its device groups.
type FixtureProduct struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description"`
	DeviceGroups []FixtureGroup `yaml:"device_groups"`
}

// FixtureGroup is a device group. Devices name devices of the owning
// account, which are assigned in order; deployments are applied in order
// so the last one is current.
type FixtureGroup struct {
	Name        string              `yaml:"name"`
	Type        string              `yaml:"type"`
	Description string              `yaml:"description"`
	Devices     []string            `yaml:"devices"`
	Deployments []FixtureDeployment `yaml:"deployments"`
}

// FixtureDeployment is one build deployed to a group.
type FixtureDeployment struct {
	SHA         string `yaml:"sha"`
	Description string `yaml:"description"`
}

// SeedResult counts what a seed created.
type SeedResult struct {
	Accounts     int
	Products     int
	DeviceGroups int
	Devices      int
	Deployments  int
}

// LoadFixture parses a fixture from r.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile parses the fixture at path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path) //nolint:gosec // Path comes from the sandbox config
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	defer file.Close()
	return LoadFixture(file)
}

// Seed creates everything in f. It stops at the first failure, leaving
// what was already created in place.
func Seed(ctx context.Context, repo *fleet.Repository, f *Fixture) (SeedResult, error) {
	var res SeedResult

	for _, fa := range f.Accounts {
		account, err := repo.CreateAccount(ctx, fa.Username, fa.Email)
		if err != nil {
			return res, fmt.Errorf("account %q: %w", fa.Username, err)
		}
		res.Accounts++

		devices := make(map[string]string, len(fa.Devices))
		for _, fd := range fa.Devices {
			device, err := repo.CreateDevice(ctx, account.ID, fd.Name, fd.MACAddress)
			if err != nil {
				return res, fmt.Errorf("device %q: %w", fd.Name, err)
			}
			devices[fd.Name] = device.ID
			res.Devices++
		}

		for _, fp := range fa.Products {
			product, err := repo.CreateProduct(ctx, account.ID, fp.Name, fp.Description)
			if err != nil {
				return res, fmt.Errorf("product %q: %w", fp.Name, err)
			}
			res.Products++

			for _, fg := range fp.DeviceGroups {
				if err := seedGroup(ctx, repo, product.ID, fg, devices, &res); err != nil {
					return res, err
				}
			}
		}
	}
	return res, nil
}

func seedGroup(ctx context.Context, repo *fleet.Repository, productID string, fg FixtureGroup, devices map[string]string, res *SeedResult) error {
	group, err := repo.CreateDeviceGroup(ctx, productID, fg.Name, fg.Type, fg.Description)
	if err != nil {
		return fmt.Errorf("device group %q: %w", fg.Name, err)
	}
	res.DeviceGroups++

	for _, name := range fg.Devices {
		id, ok := devices[name]
		if !ok {
			return fmt.Errorf("device group %q: device %q is not declared by its account", fg.Name, name)
		}
		if _, err := repo.AssignDevice(ctx, id, group.ID); err != nil {
			return fmt.Errorf("assigning %q to %q: %w", name, fg.Name, err)
		}
	}

	for _, fd := range fg.Deployments {
		if _, err := repo.Deploy(ctx, group.ID, fd.SHA, fd.Description); err != nil {
			return fmt.Errorf("deploying to %q: %w", fg.Name, err)
		}
		res.Deployments++
	}
	return nil
}
