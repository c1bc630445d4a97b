package fleet

import "errors"

// Lookup errors.
var (
	// ErrAccountNotFound is returned when an account id does not exist.
	ErrAccountNotFound = errors.New("fleet: account not found")

	// ErrProductNotFound is returned when a product id does not exist.
	ErrProductNotFound = errors.New("fleet: product not found")

	// ErrGroupNotFound is returned when a device group id does not exist.
	ErrGroupNotFound = errors.New("fleet: device group not found")

	// ErrDeviceNotFound is returned when a device id does not exist.
	ErrDeviceNotFound = errors.New("fleet: device not found")

	// ErrUnsupportedType is returned by Find for an unknown entity type.
	ErrUnsupportedType = errors.New("fleet: unsupported entity type")

	// ErrUnsupportedAttribute is returned by Find for an attribute that
	// cannot be filtered on.
	ErrUnsupportedAttribute = errors.New("fleet: unsupported attribute")
)

// Mutation errors.
var (
	// ErrAccountExists is returned when the username or email is taken.
	ErrAccountExists = errors.New("fleet: account already exists")

	// ErrProductExists is returned when the owner already has a product
	// with that name.
	ErrProductExists = errors.New("fleet: product already exists")

	// ErrGroupExists is returned when the product already has a device
	// group with that name.
	ErrGroupExists = errors.New("fleet: device group already exists")

	// ErrDeviceExists is returned when a device with the same MAC address
	// is already registered.
	ErrDeviceExists = errors.New("fleet: device already exists")

	// ErrNameRequired is returned when creating a product or device group
	// without a name.
	ErrNameRequired = errors.New("fleet: name is required")

	// ErrInvalidMACAddress is returned when a device MAC is malformed.
	ErrInvalidMACAddress = errors.New("fleet: invalid mac address")

	// ErrInvalidGroupType is returned for a device group type other than
	// the known ones.
	ErrInvalidGroupType = errors.New("fleet: invalid device group type")

	// ErrDeviceAssigned is returned when removing an assigned device
	// without force.
	ErrDeviceAssigned = errors.New("fleet: device is assigned to a device group")

	// ErrProductInUse is returned when deleting a product that still has
	// device groups without force.
	ErrProductInUse = errors.New("fleet: product has device groups")
)
