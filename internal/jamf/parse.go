package jamf

import (
	"fmt"

	"github.com/jssimporter/spruce/internal/model"
)

// memberOfCriterion is the comparison a smart-group criterion uses to nest
// another group's membership.
const memberOfCriterion = "member of"

// groupCriterionField names, per group kind, the criterion field that
// references another group.
var groupCriterionField = map[model.ObjectKind]string{
	model.KindComputerGroup:     "Computer Group",
	model.KindMobileDeviceGroup: "Mobile Device Group",
}

// groupMemberPath names, per group kind, the field path of the cached
// member entries.
var groupMemberPath = map[model.ObjectKind]string{
	model.KindComputerGroup:     "computers/computer",
	model.KindMobileDeviceGroup: "mobile_devices/mobile_device",
}

// parseGroup builds the typed group view from a full group record.
//
// Group records carry id and name at the top level, not under <general>.
// Nested group references live in smart-group criteria: a criterion on the
// group field with a "member of" comparison names another group by name.
func parseGroup(kind model.ObjectKind, record *model.Record) (model.Group, error) {
	id, ok := record.Int("id")
	if !ok {
		return model.Group{}, fmt.Errorf("group record %q has no id", record.Text("name"))
	}

	group := model.Group{
		Identity:    model.Identity{ID: id, Name: record.Text("name")},
		Kind:        kind,
		Smart:       record.Bool("is_smart"),
		MemberCount: record.Count(groupMemberPath[kind]),
	}

	field := groupCriterionField[kind]
	for _, criterion := range record.Records("criteria/criterion") {
		if criterion.Text("name") != field {
			continue
		}
		if criterion.Text("search_type") != memberOfCriterion {
			continue
		}
		if value := criterion.Text("value"); value != "" {
			group.NestedGroupNames = append(group.NestedGroupNames, value)
		}
	}

	return group, nil
}

// parseDevice builds the typed inventory view from a full device record.
// Computers and mobile devices store the same facts at different paths.
func parseDevice(kind model.ObjectKind, record *model.Record) (model.Device, error) {
	id, ok := record.Int("general/id")
	if !ok {
		return model.Device{}, fmt.Errorf("device record %q has no id", record.Text("general/name"))
	}

	device := model.Device{
		Identity:     model.Identity{ID: id, Name: record.Text("general/name")},
		Kind:         kind,
		SerialNumber: record.Text("general/serial_number"),
	}

	switch kind {
	case model.KindComputer:
		device.LastCheckIn = record.Text("general/last_contact_time")
		device.OSVersion = record.Text("hardware/os_version")
		device.ModelID = record.Text("hardware/model_identifier")
		device.Groups = record.Texts("groups_accounts/computer_group_memberships/group")
	case model.KindMobileDevice:
		device.LastCheckIn = record.Text("general/last_inventory_update")
		device.OSVersion = record.Text("general/os_version")
		device.ModelID = record.Text("general/model_identifier")
		device.Groups = record.Texts("mobile_device_groups/mobile_device_group/name")
	}

	return device, nil
}
