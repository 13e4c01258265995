package authz

// Permission names recognized by the default catalog.
const (
	PermNetworkTools        = "NETWORK_TOOLS"
	PermSystemHealth        = "SYSTEM_HEALTH"
	PermSecurityView        = "SECURITY_VIEW"
	PermADUserManagement    = "AD_USER_MANAGEMENT"
	PermSystemConfiguration = "SYSTEM_CONFIGURATION"
	PermAutomationTools     = "AUTOMATION_TOOLS"
	PermTroubleshooting     = "TROUBLESHOOTING"
	PermReporting           = "REPORTING"
	PermOSUpgradeTools      = "OS_UPGRADE_TOOLS"
)

// Role names recognized by the default catalog.
const (
	RoleAdministrator = "Administrator"
	RoleTechnician    = "Technician"
	RoleReadOnly      = "ReadOnly"
)

var defaultPermissions = []struct {
	name        string
	description string
}{
	{PermNetworkTools, "run network diagnostic tools"},
	{PermSystemHealth, "view system health dashboards"},
	{PermSecurityView, "view security posture and audit data"},
	{PermADUserManagement, "manage directory user accounts"},
	{PermSystemConfiguration, "change system configuration"},
	{PermAutomationTools, "run automation and scripting tools"},
	{PermTroubleshooting, "run interactive troubleshooting tools"},
	{PermReporting, "generate and export reports"},
	{PermOSUpgradeTools, "run operating system upgrade tools"},
}

// DefaultCatalog builds and freezes the standard catalog.
//
// Administrator holds every permission. Technician holds everything except
// directory user management and system configuration. ReadOnly holds only
// view and reporting permissions.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	for _, p := range defaultPermissions {
		if _, err := c.RegisterPermission(p.name, p.description); err != nil {
			panic(err)
		}
	}

	all := make([]string, 0, len(defaultPermissions))
	for _, p := range defaultPermissions {
		all = append(all, p.name)
	}

	technician := make([]string, 0, len(all))
	for _, name := range all {
		if name == PermADUserManagement || name == PermSystemConfiguration {
			continue
		}
		technician = append(technician, name)
	}

	readOnly := []string{PermSystemHealth, PermSecurityView, PermReporting}

	mustRegisterRole(c, RoleAdministrator, "full access to every tool", all)
	mustRegisterRole(c, RoleTechnician, "operational access without directory or configuration changes", technician)
	mustRegisterRole(c, RoleReadOnly, "view-only access", readOnly)

	c.Freeze()
	return c
}

func mustRegisterRole(c *Catalog, name, description string, permissions []string) {
	if err := c.RegisterRole(name, description, permissions); err != nil {
		panic(err)
	}
}
