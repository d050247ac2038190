package adapter

import (
	"testing"

	"github.com/fedbridge/fedbridge/pkg/fedbridge/consumer"
	"github.com/fedbridge/fedbridge/pkg/fedbridge/models"
)

func makeUser(t *testing.T, env Env, username string) *UserAdapter {
	t.Helper()
	user := &models.User{Username: username, RealmID: "acme"}
	if err := env.Users.Create(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return NewUser(env, "acme", user)
}

func TestUserAdapterID(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	// Without a stored consumer ID the qualified local key is exposed
	want := env.Codec.QualifiedID(ua.Entity().ID)
	if ua.ID() != want {
		t.Errorf("Expected %q, got %q", want, ua.ID())
	}

	fid := "consumer-1"
	ua.Entity().FederatedID = &fid
	if ua.ID() != "consumer-1" {
		t.Errorf("Expected stored consumer ID to win, got %q", ua.ID())
	}
}

func TestUserAdapterFieldSetters(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	if err := ua.SetEmail("alice@example.com"); err != nil {
		t.Fatalf("SetEmail failed: %v", err)
	}
	if err := ua.SetEnabled(false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if err := ua.SetEmailVerified(true); err != nil {
		t.Fatalf("SetEmailVerified failed: %v", err)
	}

	loaded, _ := env.Users.ByID(ua.Entity().ID)
	if loaded.Email != "alice@example.com" {
		t.Errorf("Expected email persisted, got %q", loaded.Email)
	}
	if !loaded.Locked {
		t.Error("Expected disabling to set the locked column")
	}
	if !loaded.EmailVerified {
		t.Error("Expected verified flag persisted")
	}
	if NewUser(env, "acme", loaded).IsEnabled() {
		t.Error("Expected disabled user to read as disabled")
	}
}

func TestUserAdapterPassword(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	// No hash stored yet
	if ua.CheckPassword("secret") {
		t.Error("Expected password check to fail without a hash")
	}

	if err := ua.SetPassword("secret"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if !ua.CheckPassword("secret") {
		t.Error("Expected correct password to verify")
	}
	if ua.CheckPassword("wrong") {
		t.Error("Expected wrong password to fail")
	}
}

func TestUserAdapterProfileAttributes(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	// A missing profile reads as empty values
	if got := ua.FirstAttribute(AttrFirstName); got != "" {
		t.Errorf("Expected empty attribute without profile, got %q", got)
	}

	// First write creates the profile row
	if err := ua.SetAttribute(AttrFirstName, "Alice"); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}
	if err := ua.SetAttribute(AttrPhone, "555-0100"); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}

	profile, err := env.Users.ProfileFor(ua.Entity().ID)
	if err != nil {
		t.Fatalf("ProfileFor failed: %v", err)
	}
	if profile == nil || profile.FirstName != "Alice" || profile.Phone != "555-0100" {
		t.Errorf("Expected profile columns persisted, got %+v", profile)
	}

	// A fresh adapter over the reloaded record sees the values
	loaded, _ := env.Users.ByID(ua.Entity().ID)
	fresh := NewUser(env, "acme", loaded)
	if got := fresh.FirstAttribute(AttrFirstName); got != "Alice" {
		t.Errorf("Expected Alice, got %q", got)
	}
}

func TestUserAdapterGenericAttributes(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	// Unmapped names go to the generic attribute store
	if err := ua.SetAttribute("locale", "de"); err != nil {
		t.Fatalf("SetAttribute failed: %v", err)
	}
	if got := ua.FirstAttribute("locale"); got != "de" {
		t.Errorf("Expected de, got %q", got)
	}

	// And the profile stays untouched
	profile, _ := env.Users.ProfileFor(ua.Entity().ID)
	if profile != nil {
		t.Error("Expected no profile row for generic attributes")
	}

	// A nil store degrades to empty reads and silent writes
	env.Attributes = nil
	bare := NewUser(env, "acme", ua.Entity())
	if got := bare.FirstAttribute("locale"); got != "" {
		t.Errorf("Expected empty read without a store, got %q", got)
	}
	if err := bare.SetAttribute("locale", "fr"); err != nil {
		t.Errorf("Expected write without a store to no-op, got %v", err)
	}
}

func TestUserAdapterRoles(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	realmRole := consumer.NewRealmRole("editor")
	clientRole := consumer.NewClientRole("billing", "invoicer")

	if err := ua.GrantRole(realmRole); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}
	if err := ua.GrantRole(clientRole); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}

	if got := len(ua.RealmRoleMappings()); got != 1 {
		t.Errorf("Expected 1 realm mapping, got %d", got)
	}
	if got := len(ua.ClientRoleMappings("billing")); got != 1 {
		t.Errorf("Expected 1 billing mapping, got %d", got)
	}
	if got := len(ua.ClientRoleMappings("analytics")); got != 0 {
		t.Errorf("Expected no analytics mappings, got %d", got)
	}

	if !ua.HasRole(realmRole) {
		t.Error("Expected granted role to be held")
	}

	if err := ua.RevokeRole(realmRole); err != nil {
		t.Fatalf("RevokeRole failed: %v", err)
	}
	if ua.HasRole(realmRole) {
		t.Error("Expected revoked role not to be held")
	}

	// Revoking a role with no local counterpart is a no-op
	if err := ua.RevokeRole(consumer.NewRealmRole("ghost")); err != nil {
		t.Errorf("Expected unresolvable revoke to no-op, got %v", err)
	}
}

func TestUserAdapterHasRoleViaGroup(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	group := consumer.NewGroup("staff")
	role := consumer.NewRealmRole("editor")

	groupEntity, err := SyncGroup(env, "acme", group)
	if err != nil {
		t.Fatalf("SyncGroup failed: %v", err)
	}
	ga := NewGroup(env, "acme", groupEntity)
	if err := ga.AssignRole(role); err != nil {
		t.Fatalf("AssignRole failed: %v", err)
	}
	if err := ua.JoinGroup(group); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	// Reload so the group's role mappings are attached
	loaded, _ := env.Users.ByID(ua.Entity().ID)
	fresh := NewUser(env, "acme", loaded)

	if !fresh.HasRole(role) {
		t.Error("Expected role inherited through group membership to be held")
	}

	// A role unknown in both ID spaces is conclusively not held
	if fresh.HasRole(consumer.NewRealmRole("ghost")) {
		t.Error("Expected unresolvable role not to be held")
	}
}

func TestUserAdapterGroups(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	group := consumer.NewGroup("staff")
	if err := ua.JoinGroup(group); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}
	if !ua.IsMemberOf(group) {
		t.Error("Expected membership after join")
	}
	if got := len(ua.Groups()); got != 1 {
		t.Errorf("Expected 1 group, got %d", got)
	}

	if err := ua.LeaveGroup(group); err != nil {
		t.Fatalf("LeaveGroup failed: %v", err)
	}
	if ua.IsMemberOf(group) {
		t.Error("Expected no membership after leave")
	}

	// Membership in an unresolvable group is conclusively false
	if ua.IsMemberOf(consumer.NewGroup("ghost")) {
		t.Error("Expected unresolvable group membership to be false")
	}
	if err := ua.LeaveGroup(consumer.NewGroup("ghost")); err != nil {
		t.Errorf("Expected unresolvable leave to no-op, got %v", err)
	}
}

func TestUserAdapterEffectivePermissions(t *testing.T) {
	env, _ := setupTestEnv(t)
	ua := makeUser(t, env, "alice")

	perm := &models.Permission{Name: "Edit", Code: "articles.edit"}
	if err := env.Permissions.Create(perm); err != nil {
		t.Fatalf("Failed to create permission: %v", err)
	}

	role := consumer.NewRealmRole("editor")
	if err := ua.GrantRole(role); err != nil {
		t.Fatalf("GrantRole failed: %v", err)
	}
	roleEntity, _ := ResolveRole(env, role)
	ra := NewRole(env, "acme", roleEntity)
	if err := ra.AddPermission(perm); err != nil {
		t.Fatalf("AddPermission failed: %v", err)
	}

	perms, err := ua.EffectivePermissions()
	if err != nil {
		t.Fatalf("EffectivePermissions failed: %v", err)
	}
	if len(perms) != 1 || perms[0].Code != "articles.edit" {
		t.Errorf("Expected [articles.edit], got %+v", perms)
	}
}
