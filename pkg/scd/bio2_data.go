package scd

// Instruction sizes in bytes, opcode byte included.
var bio2Sizes = [...]int{
	1, 2, 1, 4, 4, 2, 4, 4, 1, 4, 3, 1, 1, 6, 2, 4,
	2, 4, 2, 4, 6, 2, 2, 6, 2, 2, 2, 6, 1, 4, 1, 1,
	1, 4, 4, 6, 4, 3, 6, 4, 1, 2, 1, 6, 20, 38, 3, 4,
	1, 1, 8, 8, 4, 3, 12, 4, 3, 8, 16, 32, 2, 3, 6, 4,
	8, 10, 1, 4, 22, 5, 10, 2, 16, 8, 2, 3, 5, 22, 22, 4,
	4, 6, 6, 6, 22, 6, 4, 8, 4, 4, 2, 2, 3, 2, 2, 2,
	14, 4, 2, 1, 16, 2, 1, 28, 40, 30, 6, 4, 1, 4, 6, 2,
	1, 1, 16, 8, 4, 22, 3, 4, 6, 1, 16, 16, 6, 6, 6, 6,
	2, 3, 3, 1, 2, 6, 1, 1, 3, 1, 6, 6, 8, 24, 24,
}

var bio2Signatures = [...]string{
	// 0x00
	"nop",
	"evt_end",
	"evt_next",
	"evt_chain",
	"evt_exec:ugp",
	"evt_kill",
	"if:uL",
	"else:u@",
	"endif",
	"sleep:uU",
	"sleeping:U",
	"wsleep",
	"wsleeping",
	"for:uLU",
	"next",
	"while:uL",

	// 0x10
	"ewhile",
	"do:uL",
	"edwhile:'",
	"switch:uL",
	"case:uLU",
	"default",
	"eswitch",
	"goto:uuu~",
	"gosub:p",
	"return",
	"break",
	"for2",
	"break_point",
	"work_copy",
	"nop_1E",
	"nop_1F",

	// 0x20
	"nop_20",
	"ck:fuu",
	"set:fuu",
	"cmp:uvcI",
	"save:vI",
	"copy:vv",
	"calc:uovI",
	"calc2:ovv",
	"sce_rnd",
	"cut_chg",
	"cut_old",
	"message_on:u3uuu",
	"aot_set:0sauuIIIIuuuuuu",
	"obj_model_set:1uuuuUUIIIIIIIIIIIIuuuu",
	"work_set:wu",
	"speed_set:uI",

	// 0x30
	"add_speed",
	"add_aspeed",
	"pos_set:uIII",
	"dir_set:uIII",
	"member_set",
	"member_set2:uv",
	"se_on:uIIIII",
	"sca_id_set",
	"flr_set",
	"dir_ck",
	"sce_espr_on:uUUUIIII",
	"door_aot_se:0sauuIIIIIIIIuuuuuuuutu",
	"cut_auto",
	"member_copy:vu",
	"member_cmp",
	"plc_motion",

	// 0x40
	"plc_dest:uuuII",
	"plc_neck:uIIIuu",
	"plc_ret",
	"plc_flg:uU",
	"sce_em_set:u2euuuuuuIIIIUU",
	"col_chg_set",
	"aot_reset:0sauuuuuu",
	"aot_on:0",
	"super_set:uuuIIIIII",
	"super_reset:uIII",
	"plc_gun",
	"cut_replace",
	"sce_espr_kill",
	"",
	"item_aot_set:0sauuIIUUTUUuu",
	"sce_key_ck:uU",

	// 0x50
	"sce_trg_ck:uU",
	"sce_bgm_control",
	"sce_espr_control",
	"sce_fade_set",
	"sce_espr3d_on:uUUUIIIIIII",
	"member_calc:oUI",
	"member_calc2:ouu",
	"sce_bgmtbl_set:uuuUU",
	"plc_rot:uU",
	"xa_on:uU",
	"weapon_chg",
	"plc_cnt",
	"sce_shake_on",
	"mizu_div_set",
	"keep_item_ck:t",
	"xa_vol",

	// 0x60
	"kage_set",
	"cut_be_set",
	"sce_item_lost:t",
	"plc_gun_eff",
	"sce_espr_on2",
	"sce_espr_kill2",
	"plc_stop",
	"aot_set_4p:usauuIIIIIIIIuuuuuu",
	"door_aot_set_4p:0sauuIIIIIIIIIIIIuuuuuuuutu",
	"item_aot_set_4p:0sauuIIIIIIIITUUuu",
	"light_pos_set:uuuI",
	"light_kido_set:uI",
	"rbj_reset",
	"sce_scr_move:uI",
	"parts_set:uuuI",
	"movie_on",

	// 0x70
	"splc_ret",
	"splc_sce",
	"super_on",
	"mirror_set",
	"sce_fade_adjust",
	"sce_espr3d_on2",
	"sce_item_get",
	"sce_line_start",
	"sce_line_main",
	"sce_line_end",
	"sce_parts_bomb",
	"sce_parts_down",
	"light_color_set",
	"light_pos_set2:uuuI",
	"light_kido_set2:uuuU",
	"light_color_set2",

	// 0x80
	"se_vol",
	"",
	"",
	"",
	"",
	"",
	"poison_ck",
	"poison_clr",
	"sce_item_ck_lost:tu",
	"",
	"nop_8a",
	"nop_8b",
	"nop_8c",
	"",
	"",
}

// Indexed by enemy kind. Empty entries have no name.
var bio2EnemyNames = [...]string{
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"",
	"Zombie (Cop)",
	"Zombie (Brad)",
	"Zombie (Guy1)",
	"Zombie (Girl)",
	"",
	"Zombie (TestSubject)",
	"Zombie (Scientist)",
	"Zombie (Naked)",
	"Zombie (Guy2)",
	"",
	"",
	"",
	"",
	"",
	"Zombie (Guy3)",
	"Zombie (Random)",
	"Zombie Dog",
	"Crow",
	"Licker (Red)",
	"Alligator",
	"Licker (Grey)",
	"Spider",
	"Baby Spider",
	"Birkin Goo",
	"Birkin Goo Child",
	"Cockroach",
	"Tyrant 1",
	"Tyrant 2",
	"",
	"Zombie Arms",
	"Ivy",
	"Vines",
	"Birkin 1",
	"Birkin 2",
	"Birkin 3",
	"Birkin 4",
	"Birkin 5",
	"",
	"",
	"",
	"",
	"Ivy (Purple)",
	"Giant Moth",
	"Maggots",
	"",
	"",
	"",
	"",
	"Chief Irons 1",
	"Ada Wong 1",
	"Chief Irons 2",
	"Ada Wong 2",
	"Ben Bertolucci 1",
	"Sherry (Pendant)",
	"BenBertolucci 2",
	"AnnetteBirkin 1",
	"Robert Kendo",
	"Annette Birkin 2",
	"Marvin Branagh",
	"Mayors Daughter",
	"",
	"",
	"",
	"Sherry (Jacket)",
	"Leon Kennedy (Rpd)",
	"Claire Redfield",
	"",
	"",
	"Leon Kennedy (Bandaged)",
	"Claire Redfield (No Jacket)",
	"",
	"",
	"Leon Kennedy (Tank Top)",
	"Claire Redfield (Cow Girl)",
	"Leon Kennedy (Leather)",
}

var bio2ItemNames = [...]string{
	"None",
	"Knife",
	"HandgunLeon",
	"HandgunClaire",
	"CustomHandgun",
	"Magnum",
	"CustomMagnum",
	"Shotgun",
	"CustomShotgun",
	"GrenadeLauncherExplosive",
	"GrenadeLauncherFlame",
	"GrenadeLauncherAcid",
	"Bowgun",
	"ColtSAA",
	"Sparkshot",
	"SMG",
	"Flamethrower",
	"RocketLauncher",
	"GatlingGun",
	"Beretta",
	"HandgunAmmo",
	"ShotgunAmmo",
	"MagnumAmmo",
	"FuelTank",
	"ExplosiveRounds",
	"FlameRounds",
	"AcidRounds",
	"SMGAmmo",
	"SparkshotAmmo",
	"BowgunAmmo",
	"InkRibbon",
	"SmallKey",
	"HandgunParts",
	"MagnumParts",
	"ShotgunParts",
	"FAidSpray",
	"AntivirusBomb",
	"ChemicalACw32",
	"HerbG",
	"HerbR",
	"HerbB",
	"HerbGG",
	"HerbGR",
	"HerbGB",
	"HerbGGG",
	"HerbGGB",
	"HerbGRB",
	"Lighter",
	"Lockpick",
	"PhotoSherry",
	"ValveHandle",
	"RedJewel",
	"RedCard",
	"BlueCard",
	"SerpentStone",
	"JaguarStone",
	"JaguarStoneL",
	"JaguarStoneR",
	"EagleStone",
	"BishopPlug",
	"RookPlug",
	"KnightPlug",
	"KingPlug",
	"WeaponBoxKey",
	"Detonator",
	"C4",
	"C4Detonator",
	"Crank",
	"FilmA",
	"FilmB",
	"FilmC",
	"UnicornMedal",
	"EagleMedal",
	"WolfMedal",
	"Cog",
	"ManholeOpener",
	"MainFuse",
	"FuseCase",
	"Vaccine",
	"VaccineCart",
	"FilmD",
	"VaccineBase",
	"GVirus",
	"SpecialKey",
	"JointPlugBlue",
	"JointPlugRed",
	"Cord",
	"PhotoAda",
	"CabinKey",
	"SpadeKey",
	"DiamondKey",
	"HeartKey",
	"ClubKey",
	"DownKey",
	"UpKey",
	"PowerRoomKey",
	"MODisk",
	"UmbrellaKeyCard",
	"MasterKey",
	"PlatformKey",
}
