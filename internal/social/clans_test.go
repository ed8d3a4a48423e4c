package social

import (
	"fmt"
	"testing"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClan(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")

	_, err := f.engine.CreateClan(f.ctx, a, " ", "", "")
	assert.ErrorIs(t, err, ErrMissingField)

	c := f.newClan(a)
	assert.Equal(t, "alice", c.OwnerID)
	assert.Equal(t, []string{"alice"}, c.MemberIDs)
	assert.Equal(t, 1, c.MemberCount)
	assert.Equal(t, 0, c.Experience)
	assert.Equal(t, 1, c.Level)
	assert.NotEmpty(t, c.Banner)
}

func TestClanLevelingScenario(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	clan := f.newClan(owner)

	for i := range 3 {
		s := f.addUser(fmt.Sprintf("joiner%d", i))
		require.NoError(t, f.engine.JoinClan(f.ctx, s, clan.ID))
	}
	c := f.clan(clan.ID)
	assert.Equal(t, 300, c.Experience)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 4, c.MemberCount)

	for range 70 {
		_, err := f.engine.SendClanMessage(f.ctx, owner, clan.ID, "gm")
		require.NoError(t, err)
	}
	c = f.clan(clan.ID)
	assert.Equal(t, 1000, c.Experience)
	assert.Equal(t, 2, c.Level)
}

func TestExperienceIsMonotonicAndLevelFollowsCurve(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	clan := f.newClan(owner)

	ops := []func() error{
		func() error { _, err := f.engine.CreatePost(f.ctx, owner, PostInput{Content: "p", ClanID: clan.ID}); return err },
		func() error { return f.engine.JoinClan(f.ctx, owner, clan.ID) },
		func() error { _, err := f.engine.SendClanMessage(f.ctx, owner, clan.ID, "hi"); return err },
	}
	prev := 0
	for i := range 60 {
		require.NoError(t, ops[i%len(ops)]())
		c := f.clan(clan.ID)
		assert.GreaterOrEqual(t, c.Experience, prev)
		assert.Equal(t, min(100, c.Experience/1000+1), c.Level)
		prev = c.Experience
	}
	assert.Equal(t, 20*(XPPost+XPJoin+XPChatMessage), prev)
}

func TestLevelForExperienceIsCapped(t *testing.T) {
	assert.Equal(t, 1, models.LevelForExperience(0))
	assert.Equal(t, 1, models.LevelForExperience(999))
	assert.Equal(t, 2, models.LevelForExperience(1000))
	assert.Equal(t, 100, models.LevelForExperience(99_000))
	assert.Equal(t, 100, models.LevelForExperience(5_000_000))
}

func TestJoinTwiceKeepsSingleMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	b := f.addUser("bob")
	clan := f.newClan(owner)

	require.NoError(t, f.engine.JoinClan(f.ctx, b, clan.ID))
	require.NoError(t, f.engine.JoinClan(f.ctx, b, clan.ID))

	c := f.clan(clan.ID)
	assert.Equal(t, 2, c.MemberCount)
	assert.Len(t, c.MemberIDs, 2)
}

func TestInviteAndRespond(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	b := f.addUser("bob")
	c := f.addUser("carol")
	clan := f.newClan(owner)

	require.NoError(t, f.engine.InviteToClan(f.ctx, owner, clan.ID, "bob"))
	require.NoError(t, f.engine.InviteToClan(f.ctx, owner, clan.ID, "bob"))
	require.NoError(t, f.engine.InviteToClan(f.ctx, owner, clan.ID, "carol"))
	require.NoError(t, f.engine.InviteToClan(f.ctx, owner, clan.ID, "owner"))

	invites := f.notificationsFor("bob", models.NotificationClanInvite)
	require.Len(t, invites, 1)
	assert.Equal(t, clan.ID, invites[0].ClanID)
	assert.Equal(t, models.InvitePending, f.engine.InviteStatus(invites[0]))
	assert.ElementsMatch(t, []string{"bob", "carol"}, f.clan(clan.ID).InvitedIDs)

	// decline
	require.NoError(t, f.engine.RespondToClanInvite(f.ctx, c, clan.ID, false))
	got := f.clan(clan.ID)
	assert.NotContains(t, got.InvitedIDs, "carol")
	assert.Equal(t, []string{"owner"}, got.MemberIDs)
	assert.Equal(t, 1, got.MemberCount)
	assert.Equal(t, 0, got.Experience)
	carolInvite := f.notificationsFor("carol", models.NotificationClanInvite)[0]
	assert.Equal(t, models.InviteExpired, f.engine.InviteStatus(carolInvite))

	// accept
	require.NoError(t, f.engine.RespondToClanInvite(f.ctx, b, clan.ID, true))
	got = f.clan(clan.ID)
	assert.Empty(t, got.InvitedIDs)
	assert.Contains(t, got.MemberIDs, "bob")
	assert.Equal(t, 2, got.MemberCount)
	assert.Equal(t, XPJoin, got.Experience)
	assert.Equal(t, models.InviteAccepted, f.engine.InviteStatus(invites[0]))
}

func TestInviteRequiresMembership(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	outsider := f.addUser("mallory")
	f.addUser("bob")
	clan := f.newClan(owner)

	require.NoError(t, f.engine.InviteToClan(f.ctx, outsider, clan.ID, "bob"))

	assert.Empty(t, f.clan(clan.ID).InvitedIDs)
	assert.Empty(t, f.repos.Notifications.All())
}

func TestInviteStatusForMissingClan(t *testing.T) {
	f := newFixture(t)
	n := models.Notification{Type: models.NotificationClanInvite, RecipientID: "bob", ClanID: "gone"}

	assert.Equal(t, models.InviteExpired, f.engine.InviteStatus(n))
}

func TestPromoteAndDemoteAreOwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	b := f.addUser("bob")
	c := f.addUser("carol")
	clan := f.newClan(owner)
	require.NoError(t, f.engine.JoinClan(f.ctx, b, clan.ID))
	require.NoError(t, f.engine.JoinClan(f.ctx, c, clan.ID))

	require.NoError(t, f.engine.PromoteModerator(f.ctx, b, clan.ID, "carol"))
	assert.Empty(t, f.clan(clan.ID).ModeratorIDs)

	require.NoError(t, f.engine.PromoteModerator(f.ctx, owner, clan.ID, "bob"))
	assert.Equal(t, []string{"bob"}, f.clan(clan.ID).ModeratorIDs)

	require.NoError(t, f.engine.DemoteModerator(f.ctx, b, clan.ID, "bob"))
	assert.Equal(t, []string{"bob"}, f.clan(clan.ID).ModeratorIDs)

	require.NoError(t, f.engine.DemoteModerator(f.ctx, owner, clan.ID, "bob"))
	assert.Empty(t, f.clan(clan.ID).ModeratorIDs)
}

func TestPromoteRequiresMember(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	f.addUser("bob")
	clan := f.newClan(owner)

	require.NoError(t, f.engine.PromoteModerator(f.ctx, owner, clan.ID, "bob"))

	assert.Empty(t, f.clan(clan.ID).ModeratorIDs)
}

func TestKickRules(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	mod := f.addUser("mod")
	other := f.addUser("mod2")
	plain := f.addUser("plain")
	clan := f.newClan(owner)
	for _, s := range []*Session{mod, other, plain} {
		require.NoError(t, f.engine.JoinClan(f.ctx, s, clan.ID))
	}
	require.NoError(t, f.engine.PromoteModerator(f.ctx, owner, clan.ID, "mod"))
	require.NoError(t, f.engine.PromoteModerator(f.ctx, owner, clan.ID, "mod2"))
	role, err := f.engine.AddClanRole(f.ctx, owner, clan.ID, "Scout", "#00ff00")
	require.NoError(t, err)
	require.NoError(t, f.engine.AssignClanRole(f.ctx, owner, clan.ID, "mod2", role.ID))

	// moderators cannot kick the owner or other moderators
	require.NoError(t, f.engine.KickMember(f.ctx, mod, clan.ID, "owner"))
	require.NoError(t, f.engine.KickMember(f.ctx, mod, clan.ID, "mod2"))
	assert.Equal(t, 4, f.clan(clan.ID).MemberCount)

	// the owner cannot kick themselves
	require.NoError(t, f.engine.KickMember(f.ctx, owner, clan.ID, "owner"))
	assert.Equal(t, 4, f.clan(clan.ID).MemberCount)

	// a moderator may kick a plain member
	require.NoError(t, f.engine.KickMember(f.ctx, mod, clan.ID, "plain"))
	c := f.clan(clan.ID)
	assert.NotContains(t, c.MemberIDs, "plain")
	assert.Equal(t, 3, c.MemberCount)

	// the owner may kick a moderator, which also clears status and roles
	require.NoError(t, f.engine.KickMember(f.ctx, owner, clan.ID, "mod2"))
	c = f.clan(clan.ID)
	assert.NotContains(t, c.MemberIDs, "mod2")
	assert.NotContains(t, c.ModeratorIDs, "mod2")
	assert.NotContains(t, c.RoleAssignments, "mod2")
	assert.Equal(t, len(c.MemberIDs), c.MemberCount)
	assert.Contains(t, c.MemberIDs, c.OwnerID)
}

func TestAssignClanRoleToggles(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	b := f.addUser("bob")
	clan := f.newClan(owner)
	require.NoError(t, f.engine.JoinClan(f.ctx, b, clan.ID))

	_, err := f.engine.AddClanRole(f.ctx, b, clan.ID, "Nope", "#000000")
	require.NoError(t, err)
	assert.Empty(t, f.clan(clan.ID).CustomRoles)

	role, err := f.engine.AddClanRole(f.ctx, owner, clan.ID, "Artist", "#ff00ff")
	require.NoError(t, err)

	require.NoError(t, f.engine.AssignClanRole(f.ctx, owner, clan.ID, "bob", role.ID))
	assert.Equal(t, []string{role.ID}, f.clan(clan.ID).RoleAssignments["bob"])

	require.NoError(t, f.engine.AssignClanRole(f.ctx, owner, clan.ID, "bob", ""))
	assert.Equal(t, []string{role.ID}, f.clan(clan.ID).RoleAssignments["bob"])

	require.NoError(t, f.engine.AssignClanRole(f.ctx, owner, clan.ID, "bob", role.ID))
	assert.Empty(t, f.clan(clan.ID).RoleAssignments["bob"])
}

func TestUpdateClanBanner(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	b := f.addUser("bob")
	clan := f.newClan(owner)

	require.NoError(t, f.engine.UpdateClanBanner(f.ctx, b, clan.ID, "https://img.example/x.png"))
	assert.Equal(t, clan.Banner, f.clan(clan.ID).Banner)

	require.NoError(t, f.engine.UpdateClanBanner(f.ctx, owner, clan.ID, "https://img.example/y.png"))
	assert.Equal(t, "https://img.example/y.png", f.clan(clan.ID).Banner)
}

func TestClanChatIsMembersOnly(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser("owner")
	outsider := f.addUser("mallory")
	clan := f.newClan(owner)

	msg, err := f.engine.SendClanMessage(f.ctx, outsider, clan.ID, "let me in")
	require.NoError(t, err)
	assert.Nil(t, msg)

	_, err = f.engine.SendClanMessage(f.ctx, owner, clan.ID, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msg, err = f.engine.SendClanMessage(f.ctx, owner, clan.ID, "welcome")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Len(t, f.repos.ClanMessages.GetByClanID(clan.ID), 1)
	assert.Equal(t, XPChatMessage, f.clan(clan.ID).Experience)
}
