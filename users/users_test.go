package users_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-zonasi-client/users"
	"github.com/stretchr/testify/require"
)

func TestUser_UnmarshalVariants(t *testing.T) {
	t.Run("student", func(t *testing.T) {
		var u users.User
		require.NoError(t, json.Unmarshal([]byte(`{"user_id":7,"username":"budi","role":"siswa","siswa_id":42,"siswa_nama":"Budi"}`), &u))
		require.Equal(t, users.KindStudent, u.Kind)
		require.Equal(t, int64(42), u.Student.SiswaID)
		require.Equal(t, "Budi", u.Student.Nama)
		require.Nil(t, u.SchoolAdmin)
	})

	t.Run("school admin", func(t *testing.T) {
		var u users.User
		require.NoError(t, json.Unmarshal([]byte(`{"user_id":3,"username":"sd1","role":"adminSD","sekolah_id":11,"sekolah_nama":"SD 1","role_id":2}`), &u))
		require.Equal(t, users.KindSchoolAdmin, u.Kind)
		require.Equal(t, int64(11), u.SchoolAdmin.SekolahID)
		require.Equal(t, int64(2), u.SchoolAdmin.RoleID)
		require.Nil(t, u.Student)
	})

	t.Run("plain with null school", func(t *testing.T) {
		var u users.User
		require.NoError(t, json.Unmarshal([]byte(`{"user_id":1,"username":"disdik","role":"adminDisdik","sekolah_id":null}`), &u))
		require.Equal(t, users.KindPlain, u.Kind)
		require.Nil(t, u.Student)
		require.Nil(t, u.SchoolAdmin)
	})

	t.Run("malformed", func(t *testing.T) {
		var u users.User
		require.Error(t, json.Unmarshal([]byte(`{"user_id":"x"}`), &u))
	})
}

func TestUser_MarshalKeepsVariant(t *testing.T) {
	in := users.NewSchoolAdmin(3, "smp", users.RoleAdminSMP, users.SchoolAdmin{SekolahID: 5, SekolahNama: "SMP 5", RoleID: 3})
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.NotContains(t, string(data), "siswa_id")

	var out users.User
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, *in, out)

	_, err = json.Marshal(users.User{Kind: users.KindStudent, ID: 1})
	require.Error(t, err)
}

func TestUser_HasRole(t *testing.T) {
	u := users.NewPlain(1, "a", users.RoleAdminDisdik)
	require.True(t, u.HasRole(users.RoleAdminSD, users.RoleAdminDisdik))
	require.False(t, u.HasRole(users.RoleSiswa))

	var nilUser *users.User
	require.False(t, nilUser.HasRole(users.RoleSiswa))
}

func TestPasswordHash(t *testing.T) {
	hash, err := users.HashPassword("rahasia123")
	require.NoError(t, err)
	require.True(t, users.CheckPasswordHash("rahasia123", hash))
	require.False(t, users.CheckPasswordHash("salah", hash))
}
