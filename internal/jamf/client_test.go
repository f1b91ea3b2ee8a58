package jamf

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jssimporter/spruce/internal/model"
)

// testServer serves canned XML per /JSSResource/ path and checks auth.
func testServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "auditor" || password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := responses[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(body))
	}))
}

func testClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(server.URL, "auditor", "hunter2")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

// TestNewClient tests server URL validation.
func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("rejects URL without scheme", func(t *testing.T) {
		t.Parallel()

		if _, err := NewClient("jss.example.com", "auditor", "hunter2"); err == nil {
			t.Fatal("expected error for scheme-less URL")
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient("https://jss.example.com/", "auditor", "hunter2")
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		if client.baseURL != "https://jss.example.com" {
			t.Errorf("baseURL = %q, want trailing slash removed", client.baseURL)
		}
	})
}

// TestClient_List tests catalog list fetch and parse.
func TestClient_List(t *testing.T) {
	t.Parallel()

	server := testServer(t, map[string]string{
		"/JSSResource/packages": `<packages>
			<size>2</size>
			<package><id>10</id><name>Chrome.pkg</name></package>
			<package><id>11</id><name>Flash.pkg</name></package>
		</packages>`,
	})
	defer server.Close()

	client := testClient(t, server)

	ids, err := client.List(context.Background(), model.KindPackage)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []model.Identity{
		{ID: 10, Name: "Chrome.pkg"},
		{ID: 11, Name: "Flash.pkg"},
	}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("List() = %v, want %v", ids, want)
	}
}

// TestClient_List_AuthFailure tests that a 401 surfaces as an error.
func TestClient_List_AuthFailure(t *testing.T) {
	t.Parallel()

	server := testServer(t, nil)
	defer server.Close()

	client, err := NewClient(server.URL, "auditor", "wrong")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if _, err := client.List(context.Background(), model.KindPackage); err == nil {
		t.Fatal("expected error for bad credentials")
	}
}

// TestClient_Containers tests concurrent full-record fetch with preserved order.
func TestClient_Containers(t *testing.T) {
	t.Parallel()

	server := testServer(t, map[string]string{
		"/JSSResource/policies": `<policies>
			<size>2</size>
			<policy><id>1</id><name>First</name></policy>
			<policy><id>2</id><name>Second</name></policy>
		</policies>`,
		"/JSSResource/policies/id/1": `<policy>
			<general><id>1</id><name>First</name></general>
		</policy>`,
		"/JSSResource/policies/id/2": `<policy>
			<general><id>2</id><name>Second</name></general>
		</policy>`,
	})
	defer server.Close()

	client := testClient(t, server)

	records, err := client.Containers(context.Background(), model.KindPolicy)
	if err != nil {
		t.Fatalf("Containers() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Containers() returned %d records, want 2", len(records))
	}
	for i, wantName := range []string{"First", "Second"} {
		if got := records[i].Text("general/name"); got != wantName {
			t.Errorf("records[%d] name = %q, want %q", i, got, wantName)
		}
	}
}

// TestClient_Groups tests typed group parsing including nesting criteria.
func TestClient_Groups(t *testing.T) {
	t.Parallel()

	server := testServer(t, map[string]string{
		"/JSSResource/computergroups": `<computer_groups>
			<size>2</size>
			<computer_group><id>100</id><name>Staff</name></computer_group>
			<computer_group><id>101</id><name>Interns</name></computer_group>
		</computer_groups>`,
		"/JSSResource/computergroups/id/100": `<computer_group>
			<id>100</id>
			<name>Staff</name>
			<is_smart>true</is_smart>
			<criteria>
				<criterion>
					<name>Computer Group</name>
					<search_type>member of</search_type>
					<value>Interns</value>
				</criterion>
				<criterion>
					<name>Operating System</name>
					<search_type>like</search_type>
					<value>13.</value>
				</criterion>
			</criteria>
			<computers>
				<computer><id>1</id><name>mac-01</name></computer>
				<computer><id>2</id><name>mac-02</name></computer>
			</computers>
		</computer_group>`,
		"/JSSResource/computergroups/id/101": `<computer_group>
			<id>101</id>
			<name>Interns</name>
			<is_smart>false</is_smart>
			<computers/>
		</computer_group>`,
	})
	defer server.Close()

	client := testClient(t, server)

	groups, err := client.Groups(context.Background(), model.KindComputerGroup)
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Groups() returned %d groups, want 2", len(groups))
	}

	staff := groups[0]
	if staff.ID != 100 || staff.Name != "Staff" || !staff.Smart {
		t.Errorf("staff = %+v, want smart group 100 Staff", staff)
	}
	if staff.MemberCount != 2 {
		t.Errorf("staff member count = %d, want 2", staff.MemberCount)
	}
	if !reflect.DeepEqual(staff.NestedGroupNames, []string{"Interns"}) {
		t.Errorf("staff nested names = %v, want [Interns]", staff.NestedGroupNames)
	}

	interns := groups[1]
	if interns.Smart || interns.MemberCount != 0 || len(interns.NestedGroupNames) != 0 {
		t.Errorf("interns = %+v, want static empty group without nesting", interns)
	}
}

// TestClient_Groups_NonGroupKind tests the kind contract check.
func TestClient_Groups_NonGroupKind(t *testing.T) {
	t.Parallel()

	server := testServer(t, nil)
	defer server.Close()

	client := testClient(t, server)
	if _, err := client.Groups(context.Background(), model.KindPackage); err == nil {
		t.Fatal("expected error for non-group kind")
	}
}

// TestClient_Devices tests typed device parsing for both platforms.
func TestClient_Devices(t *testing.T) {
	t.Parallel()

	t.Run("computers", func(t *testing.T) {
		t.Parallel()

		server := testServer(t, map[string]string{
			"/JSSResource/computers": `<computers>
				<size>1</size>
				<computer><id>1</id><name>mac-01</name></computer>
			</computers>`,
			"/JSSResource/computers/id/1": `<computer>
				<general>
					<id>1</id>
					<name>mac-01</name>
					<serial_number>C02ABC123</serial_number>
					<last_contact_time>2026-08-01 09:30:00</last_contact_time>
				</general>
				<hardware>
					<os_version>13.2</os_version>
					<model_identifier>iMac13,2</model_identifier>
				</hardware>
				<groups_accounts>
					<computer_group_memberships>
						<group>All Managed Clients</group>
						<group>Staff</group>
					</computer_group_memberships>
				</groups_accounts>
			</computer>`,
		})
		defer server.Close()

		client := testClient(t, server)

		devices, err := client.Devices(context.Background(), model.KindComputer)
		if err != nil {
			t.Fatalf("Devices() error = %v", err)
		}
		if len(devices) != 1 {
			t.Fatalf("Devices() returned %d devices, want 1", len(devices))
		}

		want := model.Device{
			Identity:     model.Identity{ID: 1, Name: "mac-01"},
			Kind:         model.KindComputer,
			SerialNumber: "C02ABC123",
			LastCheckIn:  "2026-08-01 09:30:00",
			OSVersion:    "13.2",
			ModelID:      "iMac13,2",
			Groups:       []string{"All Managed Clients", "Staff"},
		}
		if !reflect.DeepEqual(devices[0], want) {
			t.Errorf("device = %+v, want %+v", devices[0], want)
		}
	})

	t.Run("mobile devices", func(t *testing.T) {
		t.Parallel()

		server := testServer(t, map[string]string{
			"/JSSResource/mobiledevices": `<mobile_devices>
				<size>1</size>
				<mobile_device><id>5</id><name>ipad-01</name></mobile_device>
			</mobile_devices>`,
			"/JSSResource/mobiledevices/id/5": `<mobile_device>
				<general>
					<id>5</id>
					<name>ipad-01</name>
					<serial_number>DMPABC123</serial_number>
					<last_inventory_update>2026-07-15 14:00:00</last_inventory_update>
					<os_version>16.1</os_version>
					<model_identifier>iPad13,1</model_identifier>
				</general>
				<mobile_device_groups>
					<mobile_device_group><id>9</id><name>All Managed iPads</name></mobile_device_group>
				</mobile_device_groups>
			</mobile_device>`,
		})
		defer server.Close()

		client := testClient(t, server)

		devices, err := client.Devices(context.Background(), model.KindMobileDevice)
		if err != nil {
			t.Fatalf("Devices() error = %v", err)
		}
		if len(devices) != 1 {
			t.Fatalf("Devices() returned %d devices, want 1", len(devices))
		}
		if devices[0].OSVersion != "16.1" || devices[0].ModelID != "iPad13,1" {
			t.Errorf("device = %+v, want iPad13,1 on 16.1", devices[0])
		}
		if !reflect.DeepEqual(devices[0].Groups, []string{"All Managed iPads"}) {
			t.Errorf("groups = %v, want [All Managed iPads]", devices[0].Groups)
		}
	})
}

// TestClient_Delete tests the removal request and its not-found path.
func TestClient_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deletes by kind and id", func(t *testing.T) {
		t.Parallel()

		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := testClient(t, server)
		if err := client.Delete(context.Background(), model.KindPackage, 11); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if gotMethod != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", gotMethod)
		}
		if gotPath != "/JSSResource/packages/id/11" {
			t.Errorf("path = %q, want /JSSResource/packages/id/11", gotPath)
		}
	})

	t.Run("missing object reports ErrNotFound", func(t *testing.T) {
		t.Parallel()

		server := testServer(t, nil)
		defer server.Close()

		client := testClient(t, server)
		err := client.Delete(context.Background(), model.KindPackage, 999)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}
