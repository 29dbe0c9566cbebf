package flow

import (
	"testing"

	"github.com/azvmotors/fleetcore/core/model"
)

func TestSelectFlow(t *testing.T) {
	renter := Actor{ID: 1, Role: model.RoleRenter}
	owner := Actor{ID: 7, Role: model.RoleOwner}

	cases := []struct {
		name     string
		actor    Actor
		vehicle  model.Vehicle
		delivery bool
		want     Kind
	}{
		{"free vehicle standard", renter, model.Vehicle{ID: 1, Status: model.StatusFree}, false, StandardRental},
		{"free vehicle delivery", renter, model.Vehicle{ID: 1, Status: model.StatusFree}, true, DeliveryRental},
		{"in use no flow", renter, model.Vehicle{ID: 1, Status: model.StatusInUse}, false, None},
		{"in use no flow even with delivery", renter, model.Vehicle{ID: 1, Status: model.StatusInUse}, true, None},
		{"pending no flow", renter, model.Vehicle{ID: 1, Status: model.StatusPending}, false, None},
		{"service no flow", renter, model.Vehicle{ID: 1, Status: model.StatusService}, false, None},
		{"failure no flow", renter, model.Vehicle{ID: 1, Status: model.StatusFailure}, false, None},
		{"owner takes own vehicle", owner, model.Vehicle{ID: 1, Status: model.StatusOwner, OwnerID: 7}, false, OwnerRental},
		{"ownership wins over delivery", owner, model.Vehicle{ID: 1, Status: model.StatusFree, OwnerID: 7}, true, OwnerRental},
		{"owner of busy vehicle gets nothing", owner, model.Vehicle{ID: 1, Status: model.StatusInUse, OwnerID: 7}, false, None},
		{"someone else's owner-held vehicle", renter, model.Vehicle{ID: 1, Status: model.StatusOwner, OwnerID: 7}, false, StandardRental},
		{"unknown status no flow", renter, model.Vehicle{ID: 1, Status: model.StatusUnknown}, false, None},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SelectFlow(tc.actor, tc.vehicle, tc.delivery); got != tc.want {
				t.Errorf("SelectFlow() = %q, want %q", got, tc.want)
			}
		})
	}
}
